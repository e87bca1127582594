package domain

// ServiceFlags is a boolean-flagged category set, stored as jsonb. A mover
// matches a filter when both carry at least one common true flag.
type ServiceFlags map[string]bool

// AnyTrue reports whether at least one category is enabled.
func (f ServiceFlags) AnyTrue() bool {
	for _, on := range f {
		if on {
			return true
		}
	}
	return false
}

// TrueKeys returns the enabled categories in unspecified order.
func (f ServiceFlags) TrueKeys() []string {
	var keys []string
	for k, on := range f {
		if on {
			keys = append(keys, k)
		}
	}
	return keys
}

// ServiceTypeKeys are the recognized service type categories.
var ServiceTypeKeys = []string{"SMALL", "HOME", "OFFICE"}

// ServiceRegionKeys are the recognized service region categories.
var ServiceRegionKeys = []string{
	"Seoul",
	"Gyeonggi-do",
	"Incheon",
	"Gangwon-do",
	"Chungcheongbuk-do",
	"Chungcheongnam-do",
	"Sejong-si",
	"Daejeon",
	"Jeonbuk-do",
	"Jeollanam-do",
	"Gwangju",
	"Gyeongsangbuk-do",
	"Gyeongsangnam-do",
	"Daegu",
	"Ulsan",
	"Busan",
	"Jeju-do",
}
