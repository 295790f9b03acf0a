package dto

type ClinicResponse struct {
	Name           string   `json:"name"`
	Phone          string   `json:"phone,omitempty"`
	Email          string   `json:"email,omitempty"`
	Address        string   `json:"address,omitempty"`
	HeroText       string   `json:"hero_text,omitempty"`
	Timezone       string   `json:"timezone"`
	ClosedWeekdays []string `json:"closed_weekdays"`
}
