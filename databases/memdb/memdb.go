// Package memdb is an in-memory implementation of the typed databases. It
// enforces the same unique constraints and guarded updates as the Mongo
// indexes and supports injecting failures per operation.
package memdb

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/case-tracker-api/databases"
	"github.com/linesmerrill/case-tracker-api/models"
)

// Store holds every collection behind one lock
type Store struct {
	mu            sync.Mutex
	complaints    map[primitive.ObjectID]models.Complaint
	firs          map[primitive.ObjectID]models.FIR
	caseFiles     map[primitive.ObjectID]models.CaseFile
	notifications map[primitive.ObjectID]models.Notification
	users         map[primitive.ObjectID]models.User
	counters      map[string]int64
	locks         map[string]lock
	faults        map[string]error
}

// New returns an empty store
func New() *Store {
	return &Store{
		complaints:    map[primitive.ObjectID]models.Complaint{},
		firs:          map[primitive.ObjectID]models.FIR{},
		caseFiles:     map[primitive.ObjectID]models.CaseFile{},
		notifications: map[primitive.ObjectID]models.Notification{},
		users:         map[primitive.ObjectID]models.User{},
		counters:      map[string]int64{},
		locks:         map[string]lock{},
		faults:        map[string]error{},
	}
}

// FailOn makes every later call of op return err until cleared with a nil
// err. op is "<collection>.<Method>", e.g. "complaints.Update".
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, op)
		return
	}
	s.faults[op] = err
}

func (s *Store) fault(op string) error {
	return s.faults[op]
}

// AddUser seeds a user
func (s *Store) AddUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// Complaints returns the complaint collection
func (s *Store) Complaints() databases.ComplaintDatabase { return complaintStore{s} }

// FIRs returns the FIR collection
func (s *Store) FIRs() databases.FIRDatabase { return firStore{s} }

// CaseFiles returns the case file collection
func (s *Store) CaseFiles() databases.CaseFileDatabase { return caseFileStore{s} }

// Notifications returns the notification collection
func (s *Store) Notifications() databases.NotificationDatabase { return notificationStore{s} }

// Users returns the user collection
func (s *Store) Users() databases.UserDatabase { return userStore{s} }

// Counters returns the counter collection
func (s *Store) Counters() databases.CounterDatabase { return counterStore{s} }

// SchedulerLocks returns the scheduler lock collection
func (s *Store) SchedulerLocks() databases.SchedulerLockDatabase { return lockStore{s} }

func allowed(status string, from []string) bool {
	if len(from) == 0 {
		return true
	}
	for _, f := range from {
		if f == status {
			return true
		}
	}
	return false
}

func newerFirst(a, b primitive.ObjectID) bool {
	return bytes.Compare(a[:], b[:]) > 0
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func now() primitive.DateTime {
	return primitive.NewDateTimeFromTime(time.Now())
}

type complaintStore struct{ s *Store }

func (c complaintStore) InsertOne(_ context.Context, complaint *models.Complaint) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if err := c.s.fault("complaints.InsertOne"); err != nil {
		return err
	}
	if _, ok := c.s.complaints[complaint.ID]; ok {
		return &databases.DuplicateKeyError{Collection: "complaints", Field: "_id"}
	}
	c.s.complaints[complaint.ID] = *complaint
	return nil
}

func (c complaintStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Complaint, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if err := c.s.fault("complaints.FindByID"); err != nil {
		return nil, err
	}
	complaint, ok := c.s.complaints[id]
	if !ok {
		return nil, databases.ErrNoDocuments
	}
	return &complaint, nil
}

func (c complaintStore) Find(_ context.Context, filter databases.ComplaintFilter) ([]models.Complaint, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if err := c.s.fault("complaints.Find"); err != nil {
		return nil, err
	}
	var out []models.Complaint
	for _, complaint := range c.s.complaints {
		d := complaint.Details
		if filter.CitizenID != nil && d.CitizenID != *filter.CitizenID {
			continue
		}
		if filter.OfficerID != nil && d.AssignedOfficer != nil && *d.AssignedOfficer != *filter.OfficerID {
			continue
		}
		if !allowed(d.Status, filter.Statuses) {
			continue
		}
		out = append(out, complaint)
	}
	sort.Slice(out, func(i, j int) bool { return newerFirst(out[i].ID, out[j].ID) })
	if filter.Limit > 0 && int64(len(out)) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (c complaintStore) Update(_ context.Context, id primitive.ObjectID, fromStatuses []string, change models.ComplaintChange) (*models.Complaint, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if err := c.s.fault("complaints.Update"); err != nil {
		return nil, err
	}
	complaint, ok := c.s.complaints[id]
	if !ok || !allowed(complaint.Details.Status, fromStatuses) {
		return nil, databases.ErrPreconditionFailed
	}
	if change.Status != nil {
		complaint.Details.Status = *change.Status
	}
	if change.AssignedOfficer != nil {
		officer := *change.AssignedOfficer
		complaint.Details.AssignedOfficer = &officer
	}
	if change.AssignedPoliceStation != nil {
		complaint.Details.AssignedPoliceStation = *change.AssignedPoliceStation
	}
	if change.FIRNumber != nil {
		complaint.Details.FIRNumber = *change.FIRNumber
	}
	if change.CaseNumber != nil {
		complaint.Details.CaseNumber = *change.CaseNumber
	}
	complaint.Details.UpdatedAt = now()
	complaint.Version++
	c.s.complaints[id] = complaint
	return &complaint, nil
}

type firStore struct{ s *Store }

func (f firStore) InsertOne(_ context.Context, fir *models.FIR) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.fault("firs.InsertOne"); err != nil {
		return err
	}
	for _, existing := range f.s.firs {
		if existing.Details.FIRNumber == fir.Details.FIRNumber {
			return &databases.DuplicateKeyError{Collection: "firs", Field: "firNumber"}
		}
	}
	f.s.firs[fir.ID] = *fir
	return nil
}

func (f firStore) findOne(op string, match func(models.FIR) bool) (*models.FIR, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.fault(op); err != nil {
		return nil, err
	}
	var found *models.FIR
	for _, fir := range f.s.firs {
		if !match(fir) {
			continue
		}
		if found == nil || newerFirst(found.ID, fir.ID) {
			fir := fir
			found = &fir
		}
	}
	if found == nil {
		return nil, databases.ErrNoDocuments
	}
	return found, nil
}

func (f firStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.FIR, error) {
	return f.findOne("firs.FindByID", func(fir models.FIR) bool { return fir.ID == id })
}

func (f firStore) FindByNumber(_ context.Context, number string) (*models.FIR, error) {
	return f.findOne("firs.FindByNumber", func(fir models.FIR) bool { return fir.Details.FIRNumber == number })
}

func (f firStore) FindByComplaint(_ context.Context, complaintID primitive.ObjectID) (*models.FIR, error) {
	return f.findOne("firs.FindByComplaint", func(fir models.FIR) bool { return fir.Details.ComplaintID == complaintID })
}

func (f firStore) Find(_ context.Context, filter databases.FIRFilter) ([]models.FIR, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.fault("firs.Find"); err != nil {
		return nil, err
	}
	var out []models.FIR
	for _, fir := range f.s.firs {
		if filter.OfficerID != nil && fir.Details.InvestigatingOfficerID != *filter.OfficerID {
			continue
		}
		if filter.ComplaintIDs != nil && !containsID(filter.ComplaintIDs, fir.Details.ComplaintID) {
			continue
		}
		out = append(out, fir)
	}
	sort.Slice(out, func(i, j int) bool { return newerFirst(out[i].ID, out[j].ID) })
	return out, nil
}

func (f firStore) mutate(op string, id primitive.ObjectID, fromStatuses []string, apply func(*models.FIR)) (*models.FIR, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.fault(op); err != nil {
		return nil, err
	}
	fir, ok := f.s.firs[id]
	if !ok || !allowed(fir.Details.Status, fromStatuses) {
		return nil, databases.ErrPreconditionFailed
	}
	apply(&fir)
	fir.Details.UpdatedAt = now()
	fir.Version++
	f.s.firs[id] = fir
	return &fir, nil
}

func (f firStore) UpdateStatus(_ context.Context, id primitive.ObjectID, fromStatuses []string, status string) (*models.FIR, error) {
	return f.mutate("firs.UpdateStatus", id, fromStatuses, func(fir *models.FIR) {
		fir.Details.Status = status
	})
}

func (f firStore) AppendNote(_ context.Context, id primitive.ObjectID, fromStatuses []string, note models.InvestigationNote) (*models.FIR, error) {
	return f.mutate("firs.AppendNote", id, fromStatuses, func(fir *models.FIR) {
		notes := append([]models.InvestigationNote{}, fir.Details.InvestigationNotes...)
		fir.Details.InvestigationNotes = append(notes, note)
	})
}

func (f firStore) DeleteOne(_ context.Context, id primitive.ObjectID) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.fault("firs.DeleteOne"); err != nil {
		return err
	}
	delete(f.s.firs, id)
	return nil
}

func (f firStore) CountByPrefix(_ context.Context, prefix string) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var n int64
	for _, fir := range f.s.firs {
		if strings.HasPrefix(fir.Details.FIRNumber, prefix) {
			n++
		}
	}
	return n, nil
}

type caseFileStore struct{ s *Store }

func (c caseFileStore) InsertOne(_ context.Context, caseFile *models.CaseFile) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if err := c.s.fault("casefiles.InsertOne"); err != nil {
		return err
	}
	for _, existing := range c.s.caseFiles {
		if existing.Details.CaseNumber == caseFile.Details.CaseNumber {
			return &databases.DuplicateKeyError{Collection: "casefiles", Field: "caseNumber"}
		}
		if existing.Details.FIRID == caseFile.Details.FIRID {
			return &databases.DuplicateKeyError{Collection: "casefiles", Field: "firID"}
		}
	}
	c.s.caseFiles[caseFile.ID] = *caseFile
	return nil
}

func (c caseFileStore) findOne(op string, match func(models.CaseFile) bool) (*models.CaseFile, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if err := c.s.fault(op); err != nil {
		return nil, err
	}
	for _, caseFile := range c.s.caseFiles {
		if match(caseFile) {
			caseFile := caseFile
			return &caseFile, nil
		}
	}
	return nil, databases.ErrNoDocuments
}

func (c caseFileStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.CaseFile, error) {
	return c.findOne("casefiles.FindByID", func(cf models.CaseFile) bool { return cf.ID == id })
}

func (c caseFileStore) FindByNumber(_ context.Context, number string) (*models.CaseFile, error) {
	return c.findOne("casefiles.FindByNumber", func(cf models.CaseFile) bool { return cf.Details.CaseNumber == number })
}

func (c caseFileStore) FindByFIR(_ context.Context, firID primitive.ObjectID) (*models.CaseFile, error) {
	return c.findOne("casefiles.FindByFIR", func(cf models.CaseFile) bool { return cf.Details.FIRID == firID })
}

func (c caseFileStore) FindByComplaint(_ context.Context, complaintID primitive.ObjectID) (*models.CaseFile, error) {
	return c.findOne("casefiles.FindByComplaint", func(cf models.CaseFile) bool { return cf.Details.ComplaintID == complaintID })
}

func (c caseFileStore) Find(_ context.Context, filter databases.CaseFileFilter) ([]models.CaseFile, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if err := c.s.fault("casefiles.Find"); err != nil {
		return nil, err
	}
	var out []models.CaseFile
	for _, caseFile := range c.s.caseFiles {
		if filter.ComplaintIDs != nil && !containsID(filter.ComplaintIDs, caseFile.Details.ComplaintID) {
			continue
		}
		if filter.FIRIDs != nil && !containsID(filter.FIRIDs, caseFile.Details.FIRID) {
			continue
		}
		out = append(out, caseFile)
	}
	sort.Slice(out, func(i, j int) bool { return newerFirst(out[i].ID, out[j].ID) })
	return out, nil
}

func (c caseFileStore) mutate(op string, id primitive.ObjectID, fromStatuses []string, guard func(models.CaseFile) bool, apply func(*models.CaseFile)) (*models.CaseFile, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if err := c.s.fault(op); err != nil {
		return nil, err
	}
	caseFile, ok := c.s.caseFiles[id]
	if !ok || !allowed(caseFile.Details.Status, fromStatuses) || (guard != nil && !guard(caseFile)) {
		return nil, databases.ErrPreconditionFailed
	}
	apply(&caseFile)
	caseFile.Details.UpdatedAt = now()
	caseFile.Version++
	c.s.caseFiles[id] = caseFile
	return &caseFile, nil
}

func (c caseFileStore) UpdateStatus(_ context.Context, id primitive.ObjectID, fromStatuses []string, status string) (*models.CaseFile, error) {
	return c.mutate("casefiles.UpdateStatus", id, fromStatuses, nil, func(cf *models.CaseFile) {
		cf.Details.Status = status
	})
}

func (c caseFileStore) AddHearing(_ context.Context, id primitive.ObjectID, fromStatuses []string, hearing models.Hearing, status string) (*models.CaseFile, error) {
	return c.mutate("casefiles.AddHearing", id, fromStatuses, nil, func(cf *models.CaseFile) {
		hearings := append([]models.Hearing{}, cf.Details.Hearings...)
		cf.Details.Hearings = append(hearings, hearing)
		next := hearing.Date
		cf.Details.NextHearingDate = &next
		cf.Details.Status = status
	})
}

func (c caseFileStore) SetJudgment(_ context.Context, id primitive.ObjectID, fromStatuses []string, judgment models.Judgment) (*models.CaseFile, error) {
	noJudgment := func(cf models.CaseFile) bool { return cf.Details.Judgment == nil }
	return c.mutate("casefiles.SetJudgment", id, fromStatuses, noJudgment, func(cf *models.CaseFile) {
		j := judgment
		cf.Details.Judgment = &j
		cf.Details.Status = models.CaseJudgment
	})
}

func (c caseFileStore) CountByPrefix(_ context.Context, prefix string) (int64, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	var n int64
	for _, caseFile := range c.s.caseFiles {
		if strings.HasPrefix(caseFile.Details.CaseNumber, prefix) {
			n++
		}
	}
	return n, nil
}

type notificationStore struct{ s *Store }

func (n notificationStore) InsertMany(_ context.Context, notifications []models.Notification) error {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	if err := n.s.fault("notifications.InsertMany"); err != nil {
		return err
	}
	for _, notification := range notifications {
		n.s.notifications[notification.ID] = notification
	}
	return nil
}

func (n notificationStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Notification, error) {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	notification, ok := n.s.notifications[id]
	if !ok {
		return nil, databases.ErrNoDocuments
	}
	return &notification, nil
}

func (n notificationStore) matching(recipientID primitive.ObjectID, unreadOnly bool) []models.Notification {
	var out []models.Notification
	for _, notification := range n.s.notifications {
		if notification.RecipientID != recipientID || (unreadOnly && notification.IsRead) {
			continue
		}
		out = append(out, notification)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return newerFirst(out[i].ID, out[j].ID)
	})
	return out
}

func (n notificationStore) FindByRecipient(_ context.Context, recipientID primitive.ObjectID, unreadOnly bool, page, limit int) ([]models.Notification, error) {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	if err := n.s.fault("notifications.FindByRecipient"); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}
	all := n.matching(recipientID, unreadOnly)
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (n notificationStore) CountByRecipient(_ context.Context, recipientID primitive.ObjectID, unreadOnly bool) (int64, error) {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	return int64(len(n.matching(recipientID, unreadOnly))), nil
}

func (n notificationStore) MarkRead(_ context.Context, id primitive.ObjectID) error {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	notification, ok := n.s.notifications[id]
	if !ok {
		return databases.ErrNoDocuments
	}
	notification.IsRead = true
	n.s.notifications[id] = notification
	return nil
}

func (n notificationStore) MarkAllRead(_ context.Context, recipientID primitive.ObjectID) (int64, error) {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	var changed int64
	for id, notification := range n.s.notifications {
		if notification.RecipientID == recipientID && !notification.IsRead {
			notification.IsRead = true
			n.s.notifications[id] = notification
			changed++
		}
	}
	return changed, nil
}

func (n notificationStore) DeleteOne(_ context.Context, id primitive.ObjectID) error {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	if _, ok := n.s.notifications[id]; !ok {
		return databases.ErrNoDocuments
	}
	delete(n.s.notifications, id)
	return nil
}

type userStore struct{ s *Store }

func (u userStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if err := u.s.fault("users.FindByID"); err != nil {
		return nil, err
	}
	user, ok := u.s.users[id]
	if !ok {
		return nil, databases.ErrNoDocuments
	}
	return &user, nil
}

func (u userStore) FindByRole(_ context.Context, role models.Role) ([]models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if err := u.s.fault("users.FindByRole"); err != nil {
		return nil, err
	}
	var out []models.User
	for _, user := range u.s.users {
		if user.Details.Role == role && user.Details.IsActive {
			out = append(out, user)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newerFirst(out[j].ID, out[i].ID) })
	return out, nil
}

type counterStore struct{ s *Store }

func (c counterStore) Next(_ context.Context, key string) (int64, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if err := c.s.fault("counters.Next"); err != nil {
		return 0, err
	}
	c.s.counters[key]++
	return c.s.counters[key], nil
}

func (c counterStore) Raise(_ context.Context, key string, floor int64) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if c.s.counters[key] < floor {
		c.s.counters[key] = floor
	}
	return nil
}

type lock struct {
	owner     string
	expiresAt time.Time
}

type lockStore struct{ s *Store }

func (l lockStore) TryAcquireLock(_ context.Context, name, owner string, ttl time.Duration) (bool, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	if err := l.s.fault("scheduler_locks.TryAcquireLock"); err != nil {
		return false, err
	}
	held, ok := l.s.locks[name]
	if ok && held.owner != owner && time.Now().Before(held.expiresAt) {
		return false, nil
	}
	l.s.locks[name] = lock{owner: owner, expiresAt: time.Now().Add(ttl)}
	return true, nil
}

func (l lockStore) ReleaseLock(_ context.Context, name, owner string) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	if held, ok := l.s.locks[name]; ok && held.owner == owner {
		delete(l.s.locks, name)
	}
	return nil
}
