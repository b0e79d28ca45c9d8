package model

import "encoding/json"

// Product is a book as listed by the catalog endpoints.
type Product struct {
	ID          uint            `json:"id"`
	Title       string          `json:"title"`
	Subtitle    string          `json:"subtitle,omitempty"`
	Desc        string          `json:"desc"`
	Note        string          `json:"note,omitempty"`
	MainImage   string          `json:"main_image"`
	RealPrice   Amount          `json:"real_price"`
	FakePrice   Amount          `json:"fake_price"`
	Discount    Amount          `json:"discount"`
	SubjectName string          `json:"subject_name,omitempty"`
	GradeName   string          `json:"grade_name,omitempty"`
	TeacherName string          `json:"teacher_name,omitempty"`
	Slider      json.RawMessage `json:"slider,omitempty"`
	Features    json.RawMessage `json:"features,omitempty"`
}

// ProductPage is one page of a listing.
type ProductPage struct {
	Products   []Product  `json:"books_data"`
	Pagination Pagination `json:"pagination"`
}

// Pagination mirrors the paging block of list responses.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page,omitempty"`
	Total       int `json:"total"`
}
