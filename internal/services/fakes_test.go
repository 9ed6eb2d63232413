package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/senyabanana/procurement-service/internal/ai"
	"github.com/senyabanana/procurement-service/internal/models"
	"github.com/senyabanana/procurement-service/internal/notify"
	"github.com/senyabanana/procurement-service/internal/repository"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func ptr[T any](v T) *T { return &v }

type memRFPRepo struct {
	mu      sync.Mutex
	rfps    map[int64]models.RFP
	records []models.RFPVendor
	nextID  int64
}

func newMemRFPRepo(rfps ...models.RFP) *memRFPRepo {
	r := &memRFPRepo{rfps: map[int64]models.RFP{}, nextID: 100}
	for _, rfp := range rfps {
		r.rfps[rfp.ID] = rfp
	}
	return r
}

func (r *memRFPRepo) CreateRFP(_ context.Context, rfp models.RFP) (*models.RFP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	rfp.ID = r.nextID
	r.rfps[rfp.ID] = rfp
	return &rfp, nil
}

func (r *memRFPRepo) GetRFP(_ context.Context, rfpId int64) (*models.RFP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rfp, ok := r.rfps[rfpId]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rfp, nil
}

func (r *memRFPRepo) ListRFPs(_ context.Context, status string) ([]models.RFP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rfps := []models.RFP{}
	for _, rfp := range r.rfps {
		if status == "" || string(rfp.Status) == status {
			rfps = append(rfps, rfp)
		}
	}
	sort.Slice(rfps, func(i, j int) bool { return rfps[i].ID < rfps[j].ID })
	return rfps, nil
}

func (r *memRFPRepo) EditRFP(_ context.Context, rfpId int64, fields map[string]interface{}) (*models.RFP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rfp, ok := r.rfps[rfpId]
	if !ok {
		return nil, repository.ErrNotFound
	}
	edited := false
	if title, ok := fields["title"].(string); ok {
		rfp.Title = title
		edited = true
	}
	if status, ok := fields["status"].(string); ok {
		rfp.Status = models.RFPStatus(status)
		edited = true
	}
	if !edited {
		return nil, repository.ErrNoFields
	}
	r.rfps[rfpId] = rfp
	return &rfp, nil
}

func (r *memRFPRepo) UpdateRFPStatus(_ context.Context, rfpId int64, status models.RFPStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rfp, ok := r.rfps[rfpId]
	if !ok {
		return repository.ErrNotFound
	}
	rfp.Status = status
	r.rfps[rfpId] = rfp
	return nil
}

func (r *memRFPRepo) DeleteRFP(_ context.Context, rfpId int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rfps[rfpId]; !ok {
		return repository.ErrNotFound
	}
	delete(r.rfps, rfpId)
	return nil
}

func (r *memRFPRepo) UpsertSendRecord(_ context.Context, record models.RFPVendor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.records {
		if existing.RFPID == record.RFPID && existing.VendorID == record.VendorID {
			if record.SentAt == nil {
				record.SentAt = existing.SentAt
			}
			r.records[i] = record
			return nil
		}
	}
	r.records = append(r.records, record)
	return nil
}

type memVendorRepo struct {
	mu      sync.Mutex
	vendors map[int64]models.Vendor
	nextID  int64
}

func newMemVendorRepo(vendors ...models.Vendor) *memVendorRepo {
	r := &memVendorRepo{vendors: map[int64]models.Vendor{}, nextID: 100}
	for _, v := range vendors {
		r.vendors[v.ID] = v
	}
	return r
}

func (r *memVendorRepo) emailTaken(email string, except int64) bool {
	for _, v := range r.vendors {
		if v.Email == email && v.ID != except {
			return true
		}
	}
	return false
}

func (r *memVendorRepo) CreateVendor(_ context.Context, req models.VendorRequest) (*models.Vendor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emailTaken(req.Email, 0) {
		return nil, repository.ErrDuplicate
	}
	r.nextID++
	v := models.Vendor{ID: r.nextID, Name: req.Name, Email: req.Email, ContactPerson: req.ContactPerson}
	r.vendors[v.ID] = v
	return &v, nil
}

func (r *memVendorRepo) GetVendor(_ context.Context, vendorId int64) (*models.Vendor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vendors[vendorId]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &v, nil
}

func (r *memVendorRepo) GetVendorByEmail(_ context.Context, email string) (*models.Vendor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.vendors {
		if v.Email == email {
			return &v, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memVendorRepo) GetVendorsByIDs(_ context.Context, ids []int64) ([]models.Vendor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	vendors := []models.Vendor{}
	for _, id := range ids {
		if v, ok := r.vendors[id]; ok {
			vendors = append(vendors, v)
		}
	}
	return vendors, nil
}

func (r *memVendorRepo) ListVendors(_ context.Context) ([]models.Vendor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	vendors := []models.Vendor{}
	for _, v := range r.vendors {
		vendors = append(vendors, v)
	}
	sort.Slice(vendors, func(i, j int) bool { return vendors[i].Name < vendors[j].Name })
	return vendors, nil
}

func (r *memVendorRepo) UpdateVendor(_ context.Context, vendorId int64, req models.VendorRequest) (*models.Vendor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vendors[vendorId]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if r.emailTaken(req.Email, vendorId) {
		return nil, repository.ErrDuplicate
	}
	v.Name, v.Email, v.ContactPerson = req.Name, req.Email, req.ContactPerson
	r.vendors[vendorId] = v
	return &v, nil
}

func (r *memVendorRepo) DeleteVendor(_ context.Context, vendorId int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vendors[vendorId]; !ok {
		return repository.ErrNotFound
	}
	delete(r.vendors, vendorId)
	return nil
}

type memProposalRepo struct {
	mu        sync.Mutex
	proposals map[int64]models.Proposal
	vendors   *memVendorRepo
	nextID    int64
	saveErr   error
	saved     [][]repository.ProposalScore
}

func newMemProposalRepo(vendors *memVendorRepo, proposals ...models.Proposal) *memProposalRepo {
	r := &memProposalRepo{proposals: map[int64]models.Proposal{}, vendors: vendors, nextID: 100}
	for _, p := range proposals {
		r.proposals[p.ID] = p
	}
	return r
}

func (r *memProposalRepo) withVendor(p models.Proposal) models.Proposal {
	if r.vendors != nil {
		if v, ok := r.vendors.vendors[p.VendorID]; ok {
			p.Vendor = &v
		}
	}
	return p
}

func (r *memProposalRepo) CreateProposal(_ context.Context, p models.Proposal) (*models.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.proposals {
		if existing.RFPID == p.RFPID && existing.VendorID == p.VendorID {
			return nil, repository.ErrDuplicate
		}
	}
	r.nextID++
	p.ID = r.nextID
	r.proposals[p.ID] = p
	return &p, nil
}

func (r *memProposalRepo) FindProposal(_ context.Context, rfpId, vendorId int64) (*models.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.proposals {
		if p.RFPID == rfpId && p.VendorID == vendorId {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memProposalRepo) GetProposal(_ context.Context, proposalId int64) (*models.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.proposals[proposalId]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p = r.withVendor(p)
	return &p, nil
}

func (r *memProposalRepo) ListProposalsByRFP(_ context.Context, rfpId int64) ([]models.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	proposals := []models.Proposal{}
	for _, p := range r.proposals {
		if p.RFPID == rfpId {
			proposals = append(proposals, r.withVendor(p))
		}
	}
	sort.Slice(proposals, func(i, j int) bool { return proposals[i].ID > proposals[j].ID })
	return proposals, nil
}

func (r *memProposalRepo) GetProposalsByIDs(_ context.Context, rfpId int64, ids []int64) ([]models.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	proposals := []models.Proposal{}
	for _, id := range ids {
		if p, ok := r.proposals[id]; ok && p.RFPID == rfpId {
			proposals = append(proposals, r.withVendor(p))
		}
	}
	return proposals, nil
}

func (r *memProposalRepo) SaveScores(_ context.Context, scores []repository.ProposalScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = append(r.saved, scores)
	for _, s := range scores {
		p := r.proposals[s.ProposalID]
		score, analysis := s.Score, s.Analysis
		p.AIScore, p.AIAnalysis = &score, &analysis
		r.proposals[s.ProposalID] = p
	}
	return nil
}

func (r *memProposalRepo) UpdateProposalStatus(_ context.Context, proposalId int64, status models.ProposalStatus) (*models.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.proposals[proposalId]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.Status = status
	r.proposals[proposalId] = p
	return &p, nil
}

func (r *memProposalRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.proposals)
}

type fakeExtractor struct {
	proposal ai.ParseResult[models.ProposalDraft]
	rfp      ai.ParseResult[models.RFPDraft]
	calls    int
}

func (f *fakeExtractor) ExtractProposalFromEmail(context.Context, string) ai.ParseResult[models.ProposalDraft] {
	f.calls++
	return f.proposal
}

func (f *fakeExtractor) ExtractRFPFromText(context.Context, string) ai.ParseResult[models.RFPDraft] {
	f.calls++
	return f.rfp
}

type fakeScorer struct {
	result    ai.ParseResult[models.ComparisonResult]
	calls     int
	proposals []ai.ProposalSummary
}

func (f *fakeScorer) ScoreProposals(_ context.Context, _ ai.RFPSummary, proposals []ai.ProposalSummary) ai.ParseResult[models.ComparisonResult] {
	f.calls++
	f.proposals = proposals
	return f.result
}

type fakeComposer struct {
	result ai.ParseResult[string]
}

func (f *fakeComposer) ComposeStatusEmail(context.Context, ai.RFPSummary, ai.VendorSummary, ai.ProposalSummary, models.ProposalStatus) ai.ParseResult[string] {
	return f.result
}

type fakeMailer struct {
	failFor map[string]error
	sent    []string
	subject string
}

func (f *fakeMailer) Send(_ context.Context, to, subject, _ string) error {
	if err := f.failFor[to]; err != nil {
		return err
	}
	f.sent = append(f.sent, to)
	f.subject = subject
	return nil
}

type fakeHooks struct {
	changes  []notify.StatusChange
	outcomes notify.Outcomes
}

func (f *fakeHooks) Fire(_ context.Context, change notify.StatusChange) notify.Outcomes {
	f.changes = append(f.changes, change)
	return f.outcomes
}
