package httptransport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"auracare/internal/domain"
	"auracare/internal/gateway"
	"auracare/internal/registration"
	"auracare/pkg/derrors"
	"auracare/pkg/sentinel"
)

const maxUploadBytes = 32 << 20

func (h *Handler) workflowFor(r *http.Request) (*registration.Workflow, domain.Variant, error) {
	variant := domain.Variant(chi.URLParam(r, "variant"))
	switch variant {
	case domain.VariantDonor:
		return h.donor, variant, nil
	case domain.VariantReceiver:
		return h.receiver, variant, nil
	default:
		return nil, "", derrors.New(derrors.CodeNotFound, "unknown registration variant")
	}
}

type registrationView struct {
	State  registration.State         `json:"state"`
	Record *domain.RegistrationRecord `json:"record,omitempty"`
}

func (h *Handler) handleRegistrationState(w http.ResponseWriter, r *http.Request) {
	workflow, _, err := h.workflowFor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	state, err := workflow.CheckRecord(r.Context())
	if err != nil && !errors.Is(err, sentinel.ErrStale) {
		writeError(w, err)
		return
	}

	_, record := workflow.State()
	writeJSON(w, http.StatusOK, registrationView{State: state, Record: record})
}

func (h *Handler) handleRegistrationSubmit(w http.ResponseWriter, r *http.Request) {
	workflow, variant, err := h.workflowFor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, derrors.New(derrors.CodeValidation, "invalid multipart body"))
		return
	}

	var form registration.Form
	if variant == domain.VariantDonor {
		form = donorFormFromRequest(r)
	} else {
		form = receiverFormFromRequest(r)
	}

	if err := workflow.Submit(r.Context(), form); err != nil && !errors.Is(err, sentinel.ErrStale) {
		writeError(w, err)
		return
	}

	state, record := workflow.State()
	writeJSON(w, http.StatusCreated, registrationView{State: state, Record: record})
}

func (h *Handler) handleRegistrationReset(w http.ResponseWriter, r *http.Request) {
	workflow, _, err := h.workflowFor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	workflow.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func donorFormFromRequest(r *http.Request) registration.DonorForm {
	organs := map[string]bool{}
	if raw := r.FormValue("organs"); raw != "" {
		_ = json.Unmarshal([]byte(raw), &organs)
	}
	return registration.DonorForm{
		FirstName:       r.FormValue("firstName"),
		LastName:        r.FormValue("lastName"),
		Email:           r.FormValue("email"),
		Phone:           r.FormValue("phone"),
		DOB:             r.FormValue("dob"),
		Gender:          r.FormValue("gender"),
		BloodGroup:      r.FormValue("bloodGroup"),
		Address:         r.FormValue("address"),
		City:            r.FormValue("city"),
		State:           r.FormValue("state"),
		HospitalName:    r.FormValue("hospitalName"),
		DoctorInCharge:  r.FormValue("doctorInCharge"),
		Organs:          organs,
		WitnessName:     r.FormValue("witnessName"),
		WitnessRelation: r.FormValue("witnessRelation"),
		Agreement:       r.FormValue("agreement") == "true",
		Photo:           formFile(r, "photo"),
		WitnessPhoto:    formFile(r, "witnessPhoto"),
	}
}

func receiverFormFromRequest(r *http.Request) registration.ReceiverForm {
	return registration.ReceiverForm{
		FirstName:      r.FormValue("firstName"),
		LastName:       r.FormValue("lastName"),
		Email:          r.FormValue("email"),
		Phone:          r.FormValue("phone"),
		DOB:            r.FormValue("dob"),
		Gender:         r.FormValue("gender"),
		BloodGroup:     r.FormValue("bloodGroup"),
		Address:        r.FormValue("address"),
		City:           r.FormValue("city"),
		State:          r.FormValue("state"),
		HospitalName:   r.FormValue("hospitalName"),
		DoctorInCharge: r.FormValue("doctorInCharge"),
		OrganNeeded:    r.FormValue("organNeeded"),
		Urgency:        r.FormValue("urgency"),
		Photo:          formFile(r, "photo"),
		IdentityCard:   formFile(r, "identityCard"),
	}
}

// formFile reads an uploaded file into memory. Missing or unreadable files
// come back nil and fail form validation, not the HTTP parse.
func formFile(r *http.Request, field string) *gateway.File {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil
	}
	return &gateway.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}
}
