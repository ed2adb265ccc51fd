package domain

import "time"

// Status is the review status of a registration record. Only an admin moves
// a record out of pending; approved and rejected are terminal for the owner.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Variant distinguishes the two registration record kinds.
type Variant string

const (
	VariantDonor    Variant = "donor"
	VariantReceiver Variant = "receiver"
)

// Urgency levels a receiver can declare for their request.
const (
	UrgencyLow      = "low"
	UrgencyMedium   = "medium"
	UrgencyHigh     = "high"
	UrgencyCritical = "critical"
)

// RegistrationRecord is a donor or receiver application as returned by the
// backend. Donor-only and receiver-only fields are zero for the other
// variant; the admin queue merges both kinds into one list.
type RegistrationRecord struct {
	ID             string `json:"_id"`
	UserID         string `json:"userId"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	DOB            string `json:"dob"`
	Gender         string `json:"gender"`
	BloodGroup     string `json:"bloodGroup"`
	Address        string `json:"address"`
	City           string `json:"city"`
	State          string `json:"state"`
	HospitalName   string `json:"hospitalName"`
	DoctorInCharge string `json:"doctorInCharge"`
	Photo          string `json:"photo,omitempty"`

	// Donor variant.
	Organs          map[string]bool `json:"organs,omitempty"`
	WitnessName     string          `json:"witnessName,omitempty"`
	WitnessRelation string          `json:"witnessRelation,omitempty"`
	WitnessPhoto    string          `json:"witnessPhoto,omitempty"`

	// Receiver variant.
	OrganNeeded  string `json:"organNeeded,omitempty"`
	Urgency      string `json:"urgency,omitempty"`
	IdentityCard string `json:"identityCard,omitempty"`

	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Pledged reports whether the donor record pledges the given organ.
func (r RegistrationRecord) Pledged(organ string) bool {
	return r.Organs[organ]
}

// ContactRequest links an approved receiver to an approved donor. Visibility
// is directional: the donor sees it only after the receiver creates it.
type ContactRequest struct {
	ID              string             `json:"_id"`
	DonorID         string             `json:"donorId"`
	ReceiverID      string             `json:"receiverId"`
	ReceiverProfile RegistrationRecord `json:"receiverProfile"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// Stats is the admin dashboard summary returned by GET /admin/stats.
type Stats struct {
	TotalUsers       int `json:"totalUsers"`
	TotalDonors      int `json:"totalDonors"`
	TotalReceivers   int `json:"totalReceivers"`
	PendingDonors    int `json:"pendingDonors"`
	PendingReceivers int `json:"pendingReceivers"`
}

// Message is a public contact-page message, readable by admins.
type Message struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject,omitempty"`
	Body      string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
