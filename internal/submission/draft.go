// Package submission walks a complaint from a draft through classification to a stored ticket.
package submission

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campusfix/complaint-service/internal/classify"
	"github.com/campusfix/complaint-service/internal/domain"
	"github.com/campusfix/complaint-service/internal/storage"
	"github.com/campusfix/complaint-service/pkg/util/errorutil"
)

// State of a draft.
type State string

const (
	StateDrafting             State = "drafting"
	StateClassified           State = "classified"
	StateClassificationFailed State = "classification_failed"
	StateSubmitted            State = "submitted"
)

// Classifier produces a classification for a description and optional photo.
type Classifier interface {
	Classify(ctx context.Context, req classify.Request) (*classify.Result, error)
}

// TicketCreator persists a new ticket.
type TicketCreator interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
}

// Deps are the collaborators Submit needs. Blobs may be nil, in which case photos are dropped.
type Deps struct {
	Tickets TicketCreator
	Blobs   storage.BlobStore
	Now     func() time.Time
	NewID   func() string
}

// Owner is the signed-in user filing the complaint.
type Owner struct {
	ID    string
	Email string
}

// Form is what the user typed and picked.
type Form struct {
	Description string
	Building    string
	Floor       string
	RoomNumber  string
	Location    *domain.Location
	Photo       string
}

// Draft holds one complaint until it is submitted. It is not safe for concurrent use.
type Draft struct {
	owner  Owner
	form   Form
	state  State
	result *classify.Result
}

// NewDraft starts a draft in the drafting state.
func NewDraft(owner Owner, form Form) *Draft {
	return &Draft{owner: owner, form: form, state: StateDrafting}
}

func (d *Draft) State() State {
	return d.state
}

// Result is the current classification, or nil.
func (d *Draft) Result() *classify.Result {
	return d.result
}

// Classify asks classifier for a result. It may be called again after a failure
// or to replace an earlier result.
func (d *Draft) Classify(ctx context.Context, classifier Classifier) (*classify.Result, error) {
	if d.state == StateSubmitted {
		return nil, errAlreadySubmitted()
	}
	result, err := classifier.Classify(ctx, classify.Request{
		Description: d.form.Description,
		Photo:       d.form.Photo,
	})
	if err != nil {
		d.state = StateClassificationFailed
		d.result = nil
		return nil, err
	}
	d.result = result
	d.state = StateClassified
	return result, nil
}

// Accept takes a classification the client obtained earlier. raw is the JSON object
// returned by the classify endpoint; it goes through the same checks and urgency repair.
func (d *Draft) Accept(raw []byte) error {
	if d.state == StateSubmitted {
		return errAlreadySubmitted()
	}
	result, err := classify.ParseResult(string(raw))
	if err != nil {
		return errorutil.NewValidationError("Invalid classification", err.Error())
	}
	d.result = result
	d.state = StateClassified
	return nil
}

// Submit uploads the photo, if any, and stores the ticket as open.
func (d *Draft) Submit(ctx context.Context, deps Deps) (*domain.Ticket, error) {
	if d.state == StateSubmitted {
		return nil, errAlreadySubmitted()
	}
	if d.result == nil {
		return nil, errorutil.NewDomainError("CLASSIFICATION_REQUIRED",
			"Please analyze your complaint with AI first", http.StatusBadRequest, nil)
	}
	if strings.TrimSpace(d.form.Description) == "" {
		return nil, errorutil.NewValidationError("Description is required", nil)
	}

	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	newID := uuid.NewString
	if deps.NewID != nil {
		newID = deps.NewID
	}

	photoURL, err := d.uploadPhoto(ctx, deps.Blobs, now())
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		ID:          newID(),
		UserID:      d.owner.ID,
		UserEmail:   d.owner.Email,
		Description: d.form.Description,
		Building:    orDefault(d.form.Building, domain.DefaultBuilding),
		Floor:       orDefault(d.form.Floor, domain.DefaultFloor),
		RoomNumber:  strings.TrimSpace(d.form.RoomNumber),
		Location:    d.form.Location,
		PhotoURL:    photoURL,
		Category:    d.result.Category,
		Urgency:     d.result.Urgency,
		Summary:     d.result.Summary,
		Status:      domain.TicketStatusOpen,
	}
	if err := deps.Tickets.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	d.state = StateSubmitted
	return ticket, nil
}

func (d *Draft) uploadPhoto(ctx context.Context, blobs storage.BlobStore, at time.Time) (*string, error) {
	if d.form.Photo == "" || blobs == nil {
		return nil, nil
	}
	image, err := classify.DecodePhoto(d.form.Photo)
	if err != nil {
		return nil, errorutil.NewValidationError("Invalid photo", err.Error())
	}
	url, err := blobs.Put(ctx, storage.PhotoKey(d.owner.ID, at, image.Extension()), image.Data, image.MIMEType)
	if err != nil {
		return nil, fmt.Errorf("upload photo: %w", err)
	}
	return &url, nil
}

func errAlreadySubmitted() error {
	return errorutil.NewConflict("Ticket already submitted", nil)
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v == "" {
		return fallback
	}
	return v
}
