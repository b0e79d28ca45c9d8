package model

// Option is a generic {id, name} dropdown entry (grades, sections, cities, regions).
type Option struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Subject is a shop filter option
type Subject struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Teacher belongs to one subject
type Teacher struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	SubjectID uint   `json:"subject_id"`
	Image     string `json:"image,omitempty"`
}

// Grade is a school grade; sections hang off it
type Grade struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ContactMessage is the body of the contact form
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}
