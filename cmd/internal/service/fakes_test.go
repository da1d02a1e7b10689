package service

import (
	"errors"
	"sync"
	"twoclouds/cmd/internal/domain/entity"
	"twoclouds/cmd/internal/utils/validators"

	"github.com/go-playground/validator/v10"
)

func newTestValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("hasupper", validators.HasUpper)
	_ = v.RegisterValidation("haslower", validators.HasLower)
	_ = v.RegisterValidation("hasdigit", validators.HasDigit)
	_ = v.RegisterValidation("hasspecial", validators.HasSpecial)
	_ = v.RegisterValidation("nodupes", validators.NoDupes)
	_ = v.RegisterValidation("nospaces", validators.NoWhiteSpaces)
	_ = v.RegisterValidation("iso8601", validators.IsIso8601)
	return v
}

type fakeUserRepo struct {
	users []*entity.User
}

func (f *fakeUserRepo) FindByID(id int) (*entity.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindBySub(sub string) (*entity.User, error) {
	for _, u := range f.users {
		if u.SubUUID == sub {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) ExistsByEmail(email string) (bool, error) {
	u, _ := f.FindByEmail(email)
	return u != nil, nil
}

func (f *fakeUserRepo) FindAll() ([]*entity.User, error) {
	return f.users, nil
}

func (f *fakeUserRepo) Save(user *entity.User) error {
	if user.ID == 0 {
		user.ID = len(f.users) + 1
		f.users = append(f.users, user)
	}
	return nil
}

// fakeCallRepo mimics the store's conditional-update discipline, including
// the mutex that stands in for the database's write serialization.
type fakeCallRepo struct {
	mu     sync.Mutex
	reqs   map[int]*entity.CallRequest
	nextID int
}

func newFakeCallRepo() *fakeCallRepo {
	return &fakeCallRepo{reqs: make(map[int]*entity.CallRequest)}
}

func (f *fakeCallRepo) Save(req *entity.CallRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if req.ID == 0 {
		f.nextID++
		req.ID = f.nextID
	}
	stored := *req
	f.reqs[req.ID] = &stored
	return nil
}

func (f *fakeCallRepo) FindByID(id int) (*entity.CallRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.reqs[id]
	if !ok {
		return nil, nil
	}
	snapshot := *stored
	return &snapshot, nil
}

func (f *fakeCallRepo) FindForParticipant(userID int) ([]*entity.CallRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*entity.CallRequest
	for _, r := range f.reqs {
		if r.RequesterID == userID || r.RecipientID == userID {
			snapshot := *r
			out = append(out, &snapshot)
		}
	}
	// Newest first, as the real repository orders.
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt > out[i].CreatedAt {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (f *fakeCallRepo) UpdateIf(id int, expectedUpdatedAt int64, updates map[string]any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.reqs[id]
	if !ok || !stored.Status.Active() || stored.UpdatedAt != expectedUpdatedAt {
		return false, nil
	}

	if v, ok := updates["status"]; ok {
		stored.Status = v.(entity.CallStatus)
	}
	if v, ok := updates["proposed_times"]; ok {
		stored.ProposedTimes = v.(entity.TimeSlice)
	}
	if v, ok := updates["selected_slot"]; ok {
		slot := v.(int64)
		stored.SelectedSlot = &slot
	}
	if v, ok := updates["updated_at"]; ok {
		stored.UpdatedAt = v.(int64)
	}
	return true, nil
}

var errSaveFailed = errors.New("save failed")

type fakeEventRepo struct {
	mu       sync.Mutex
	events   []*entity.Event
	nextID   int
	failSave bool
}

func (f *fakeEventRepo) Save(event *entity.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failSave {
		return errSaveFailed
	}
	if event.SourceRequestID != nil {
		for _, e := range f.events {
			if e.SourceRequestID != nil && *e.SourceRequestID == *event.SourceRequestID && e.ID != event.ID {
				return errors.New("UNIQUE constraint failed: events.source_request_id")
			}
		}
	}
	if event.ID == 0 {
		f.nextID++
		event.ID = f.nextID
		stored := *event
		f.events = append(f.events, &stored)
		return nil
	}
	for i, e := range f.events {
		if e.ID == event.ID {
			stored := *event
			f.events[i] = &stored
			return nil
		}
	}
	return nil
}

func (f *fakeEventRepo) FindByID(id int) (*entity.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.events {
		if e.ID == id {
			snapshot := *e
			return &snapshot, nil
		}
	}
	return nil, nil
}

func (f *fakeEventRepo) FindVisibleTo(userID int) ([]*entity.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Event
	for _, e := range f.events {
		if e.OwnerID == userID || e.IsShared {
			snapshot := *e
			out = append(out, &snapshot)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) FindMonthEvents(monthStart, monthEnd int64) ([]*entity.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Event
	for _, e := range f.events {
		if e.StartTime < monthEnd && e.EndTime > monthStart {
			snapshot := *e
			out = append(out, &snapshot)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) FindBySourceRequestID(requestID int) (*entity.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.events {
		if e.SourceRequestID != nil && *e.SourceRequestID == requestID {
			snapshot := *e
			return &snapshot, nil
		}
	}
	return nil, nil
}

func (f *fakeEventRepo) Delete(event *entity.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.events {
		if e.ID == event.ID {
			f.events = append(f.events[:i], f.events[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeEventRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

type fakeLetterRepo struct {
	letters []*entity.Letter
	nextID  int
}

func (f *fakeLetterRepo) Save(letter *entity.Letter) error {
	if letter.ID == 0 {
		f.nextID++
		letter.ID = f.nextID
		stored := *letter
		f.letters = append(f.letters, &stored)
	}
	return nil
}

func (f *fakeLetterRepo) FindByID(id int) (*entity.Letter, error) {
	for _, l := range f.letters {
		if l.ID == id {
			snapshot := *l
			return &snapshot, nil
		}
	}
	return nil, nil
}

func (f *fakeLetterRepo) FindForParticipant(userID int) ([]*entity.Letter, error) {
	var out []*entity.Letter
	for _, l := range f.letters {
		if l.SenderID == userID || l.RecipientID == userID {
			snapshot := *l
			out = append(out, &snapshot)
		}
	}
	return out, nil
}

func (f *fakeLetterRepo) MarkOpened(id, recipientID int, openedAt int64) (bool, error) {
	for _, l := range f.letters {
		if l.ID == id && l.RecipientID == recipientID && l.OpenedAt == nil {
			stamp := openedAt
			l.OpenedAt = &stamp
			l.UpdatedAt = openedAt
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLetterRepo) CountUnread(recipientID int) (int64, error) {
	var count int64
	for _, l := range f.letters {
		if l.RecipientID == recipientID && l.OpenedAt == nil {
			count++
		}
	}
	return count, nil
}

type fakeSettingsRepo struct {
	settings *entity.AppSettings
	failSave bool
}

func (f *fakeSettingsRepo) Find() (*entity.AppSettings, error) {
	if f.settings == nil {
		return nil, nil
	}
	snapshot := *f.settings
	return &snapshot, nil
}

func (f *fakeSettingsRepo) Save(settings *entity.AppSettings) error {
	if f.failSave {
		return errSaveFailed
	}
	stored := *settings
	f.settings = &stored
	return nil
}
