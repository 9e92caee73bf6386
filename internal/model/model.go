package model

import "time"

// Record is the minimal contract the list machinery needs from a row: a
// stable id. Everything else is page-specific.
type Record interface {
	RecordID() string
}

// Category is one row of the categories admin table.
type Category struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Status       string    `json:"status"`
	ProductCount int       `json:"productCount"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (c Category) RecordID() string { return c.ID }

// Product is one row of the products admin table.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	SKU         string    `json:"sku"`
	CategoryID  string    `json:"categoryId"`
	Status      string    `json:"status"`
	Price       string    `json:"price"`
	Stock       int       `json:"stock"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (p Product) RecordID() string { return p.ID }

// Inquiry is one row of the inquiries admin table.
type Inquiry struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	Company   string    `json:"company"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	ProductID string    `json:"productId"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

func (i Inquiry) RecordID() string { return i.ID }
