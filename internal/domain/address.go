package domain

// Address is the structured postal address attached to an estimate request.
// All fields are required together; a partially filled address is invalid.
type Address struct {
	Sido        string `json:"sido"`
	SidoEnglish string `json:"sidoEnglish"`
	Sigungu     string `json:"sigungu"`
	RoadAddress string `json:"roadAddress"`
	FullAddress string `json:"fullAddress"`
}

// Complete reports whether every address field is set.
func (a Address) Complete() bool {
	return a.Sido != "" && a.SidoEnglish != "" && a.Sigungu != "" &&
		a.RoadAddress != "" && a.FullAddress != ""
}
