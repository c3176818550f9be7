package model

// Option is a selectable value for radio-style inputs.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field describes how an input is presented.
type Field struct {
	ID          FieldID   `json:"id"`
	Kind        InputKind `json:"kind"`
	Label       string    `json:"label"`
	Placeholder string    `json:"placeholder,omitempty"`
	Required    bool      `json:"required"`
	Options     []Option  `json:"options,omitempty"`
	MaxLength   int       `json:"maxLength,omitempty"`
}

// Form is the static description of the feedback form.
type Form struct {
	Title    string  `json:"title"`
	Subtitle string  `json:"subtitle"`
	Fields   []Field `json:"fields"`
}

// RatingOptions returns the 1..5 star choices.
func RatingOptions() []Option {
	return []Option{
		{Value: "1", Label: "1 ★"},
		{Value: "2", Label: "2 ★"},
		{Value: "3", Label: "3 ★"},
		{Value: "4", Label: "4 ★"},
		{Value: "5", Label: "5 ★"},
	}
}

// FeedbackForm returns the training feedback form descriptor.
func FeedbackForm() Form {
	return Form{
		Title:    "Training Feedback Form",
		Subtitle: "Please share your experience with the training session",
		Fields: []Field{
			{
				ID:          FieldName,
				Kind:        InputText,
				Label:       "Name *",
				Placeholder: "Enter your full name",
				Required:    true,
			},
			{
				ID:          FieldEmail,
				Kind:        InputEmail,
				Label:       "Email *",
				Placeholder: "Enter your email address",
				Required:    true,
			},
			{
				ID:          FieldPhone,
				Kind:        InputTel,
				Label:       "Phone Number",
				Placeholder: "Enter your 10-digit phone number",
			},
			{
				ID:       FieldRating,
				Kind:     InputRadio,
				Label:    "Rating *",
				Required: true,
				Options:  RatingOptions(),
			},
			{
				ID:          FieldFeedback,
				Kind:        InputTextArea,
				Label:       "Feedback *",
				Placeholder: "Please share your feedback (20-250 characters)",
				Required:    true,
				MaxLength:   FeedbackMaxLength,
			},
		},
	}
}

// Lookup returns the descriptor for id.
func (f Form) Lookup(id FieldID) (Field, bool) {
	for _, field := range f.Fields {
		if field.ID == id {
			return field, true
		}
	}
	return Field{}, false
}
