package registration

import (
	"encoding/json"

	"auracare/internal/domain"
	"auracare/internal/gateway"
	"auracare/pkg/derrors"
)

// Form is a variant-specific submission. Validate runs entirely client-side
// and mirrors the server-side invariants exactly, so a locally rejected form
// would have been rejected remotely too. The round trip is skipped, never
// second-guessed.
type Form interface {
	Variant() domain.Variant
	Validate() error
	multipart() *gateway.Form
}

// Organs that can be pledged on the donor form.
var PledgeableOrgans = []string{"kidneys", "liver", "heart", "lungs", "pancreas", "eyes"}

// DonorForm is the donor registration submission.
type DonorForm struct {
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	DOB            string
	Gender         string
	BloodGroup     string
	Address        string
	City           string
	State          string
	HospitalName   string
	DoctorInCharge string

	Organs          map[string]bool
	WitnessName     string
	WitnessRelation string
	Agreement       bool

	Photo        *gateway.File
	WitnessPhoto *gateway.File
}

func (f DonorForm) Variant() domain.Variant { return domain.VariantDonor }

func (f DonorForm) Validate() error {
	required := map[string]string{
		"first name":       f.FirstName,
		"last name":        f.LastName,
		"email":            f.Email,
		"phone":            f.Phone,
		"date of birth":    f.DOB,
		"gender":           f.Gender,
		"blood group":      f.BloodGroup,
		"address":          f.Address,
		"city":             f.City,
		"state":            f.State,
		"hospital":         f.HospitalName,
		"doctor in charge": f.DoctorInCharge,
		"witness name":     f.WitnessName,
		"witness relation": f.WitnessRelation,
	}
	if err := requireAll(required); err != nil {
		return err
	}
	if f.Photo.Empty() || f.WitnessPhoto.Empty() {
		return derrors.New(derrors.CodeValidation, "Please upload both photos")
	}
	if !f.Agreement {
		return derrors.New(derrors.CodeValidation, "Please accept the donor declaration of consent")
	}
	return nil
}

func (f DonorForm) multipart() *gateway.Form {
	form := gateway.NewForm()
	form.Set("firstName", f.FirstName)
	form.Set("lastName", f.LastName)
	form.Set("email", f.Email)
	form.Set("phone", f.Phone)
	form.Set("dob", f.DOB)
	form.Set("gender", f.Gender)
	form.Set("bloodGroup", f.BloodGroup)
	form.Set("address", f.Address)
	form.Set("city", f.City)
	form.Set("state", f.State)
	organs, _ := json.Marshal(f.Organs)
	form.Set("organs", string(organs))
	form.Attach("photo", f.Photo)
	form.Set("witnessName", f.WitnessName)
	form.Set("witnessRelation", f.WitnessRelation)
	form.Attach("witnessPhoto", f.WitnessPhoto)
	form.Set("hospitalName", f.HospitalName)
	form.Set("doctorInCharge", f.DoctorInCharge)
	return form
}

// ReceiverForm is the recipient request submission.
type ReceiverForm struct {
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	DOB            string
	Gender         string
	BloodGroup     string
	Address        string
	City           string
	State          string
	HospitalName   string
	DoctorInCharge string

	OrganNeeded string
	Urgency     string

	Photo        *gateway.File
	IdentityCard *gateway.File
}

func (f ReceiverForm) Variant() domain.Variant { return domain.VariantReceiver }

func (f ReceiverForm) Validate() error {
	required := map[string]string{
		"first name":       f.FirstName,
		"last name":        f.LastName,
		"email":            f.Email,
		"phone":            f.Phone,
		"date of birth":    f.DOB,
		"gender":           f.Gender,
		"blood group":      f.BloodGroup,
		"address":          f.Address,
		"city":             f.City,
		"state":            f.State,
		"hospital":         f.HospitalName,
		"doctor in charge": f.DoctorInCharge,
		"organ needed":     f.OrganNeeded,
	}
	if err := requireAll(required); err != nil {
		return err
	}
	if f.Photo.Empty() || f.IdentityCard.Empty() {
		return derrors.New(derrors.CodeValidation, "Please upload both photo and identity card")
	}
	return nil
}

func (f ReceiverForm) multipart() *gateway.Form {
	urgency := f.Urgency
	if urgency == "" {
		urgency = domain.UrgencyLow
	}
	form := gateway.NewForm()
	form.Set("firstName", f.FirstName)
	form.Set("lastName", f.LastName)
	form.Set("email", f.Email)
	form.Set("phone", f.Phone)
	form.Set("dob", f.DOB)
	form.Set("gender", f.Gender)
	form.Set("bloodGroup", f.BloodGroup)
	form.Set("address", f.Address)
	form.Set("city", f.City)
	form.Set("state", f.State)
	form.Set("organNeeded", f.OrganNeeded)
	form.Set("urgency", urgency)
	form.Attach("photo", f.Photo)
	form.Attach("identityCard", f.IdentityCard)
	form.Set("hospitalName", f.HospitalName)
	form.Set("doctorInCharge", f.DoctorInCharge)
	return form
}

func requireAll(fields map[string]string) error {
	for label, value := range fields {
		if value == "" {
			return derrors.New(derrors.CodeValidation, "Please fill the "+label+" field")
		}
	}
	return nil
}
