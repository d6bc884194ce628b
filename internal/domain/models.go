package domain

import (
	"time"
)

// Collection keys in the record store.
const (
	CollectionProjects    = "projects"
	CollectionClients     = "clients"
	CollectionContacts    = "contact_submissions"
	CollectionNewsletters = "newsletter_subscriptions"
)

type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImagePath   string `json:"imagePath,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

type ProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImagePath   string `json:"imagePath"`
}

// Client is a testimonial shown on the landing page.
type Client struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Designation string `json:"designation"`
	Description string `json:"description"`
	ImagePath   string `json:"imagePath,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

type ClientInput struct {
	Name        string `json:"name"`
	Designation string `json:"designation"`
	Description string `json:"description"`
	ImagePath   string `json:"imagePath"`
}

type ContactSubmission struct {
	ID          string    `json:"id"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	Mobile      string    `json:"mobile"`
	City        string    `json:"city"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type ContactInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	City     string `json:"city"`
}

// NewsletterSubscription has no synthetic id, the email is the key.
type NewsletterSubscription struct {
	Email        string    `json:"email"`
	SubscribedAt time.Time `json:"subscribedAt"`
}

type NewsletterInput struct {
	Email string `json:"email"`
}
