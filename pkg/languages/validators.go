package languages

type ListLanguagesQuery struct {
	Limit  *int `query:"limit" validate:"omitempty,min=1,max=1000"`
	Offset *int `query:"offset" validate:"omitempty,min=0"`
}

type LanguagePayload struct {
	Name string `json:"name" mod:"trim" validate:"required,max=200"`
}
