package deal

type Type string

const (
	TypeHot     Type = "hot"
	TypeRegular Type = "regular"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case TypeHot, TypeRegular:
		return true
	default:
		return false
	}
}

func NewType(s string) (Type, error) {
	t := Type(s)
	if !t.IsValid() {
		return "", ErrInvalidDealType
	}
	return t, nil
}

type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
)

func (s Status) String() string {
	return string(s)
}

// CategoryAll is the sentinel category value that disables category filtering.
const CategoryAll = "All"
