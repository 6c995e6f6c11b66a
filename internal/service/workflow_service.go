package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/amirhzq/unit-media-api/internal/dto"
	"github.com/amirhzq/unit-media-api/internal/models"
	"github.com/amirhzq/unit-media-api/internal/store"
	appErrors "github.com/amirhzq/unit-media-api/pkg/errors"
)

// WorkflowService owns the Submission and LeaveRequest collections and runs
// the shared approval state machine over both. Every mutating operation
// re-checks the actor's capability before touching state; the presentation
// layer's own gating is advisory only.
//
// Mutations serialize on one mutex so the load-mutate-save cycle against the
// key-value store behaves like the single-actor model the storage layout
// assumes. Separate processes sharing one backend can still race; that
// limitation is inherited from the original design.
type WorkflowService struct {
	store     store.Store
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService

	mu    sync.Mutex
	now   func() time.Time
	newID func(prefix string) string
}

// NewWorkflowService constructs a WorkflowService instance.
func NewWorkflowService(st store.Store, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *WorkflowService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkflowService{
		store:     st,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		now:       func() time.Time { return time.Now().UTC() },
		newID: func(prefix string) string {
			return prefix + "_" + uuid.NewString()
		},
	}
}

// CreateSubmission records a new media item in state pending, stamped with
// the actor's identity.
func (s *WorkflowService) CreateSubmission(ctx context.Context, actor *models.Session, req dto.CreateSubmissionRequest) (*models.Submission, error) {
	if !actor.LoggedIn() {
		return nil, appErrors.ErrUnauthenticated
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	submissions, err := s.loadSubmissions(ctx)
	if err != nil {
		return nil, err
	}

	user := actor.CurrentUser
	submission := models.Submission{
		ID:               s.newID("sub"),
		Type:             models.SubmissionType(req.Type),
		Title:            req.Title,
		Description:      req.Description,
		SubmittedBy:      user.Username,
		SubmitterName:    user.FullName,
		SubmitterRole:    user.RoleName,
		Timestamp:        s.now(),
		Status:           models.StatusPending,
		SupportApprovals: []models.SupportRecord{},
		Media: models.Media{
			Kind:    models.MediaKind(req.MediaKind),
			Locator: req.MediaLocator,
		},
	}

	submissions = append(submissions, submission)
	if err := s.saveSubmissions(ctx, submissions); err != nil {
		return nil, err
	}

	s.metrics.RecordWorkflowAction("submission", "create")
	s.logger.Info("submission created",
		zap.String("id", submission.ID),
		zap.String("type", string(submission.Type)),
		zap.String("submitted_by", user.Username),
	)
	return &submission, nil
}

// SupportApproveSubmission appends a support record for the actor. The append
// is idempotent per approver: signing twice is a silent no-op.
func (s *WorkflowService) SupportApproveSubmission(ctx context.Context, actor *models.Session, id string) (*models.Submission, error) {
	if !actor.LoggedIn() {
		return nil, appErrors.ErrUnauthenticated
	}
	if !actor.Can(models.CapSupportSubmission) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "role cannot support submissions")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	submissions, err := s.loadSubmissions(ctx)
	if err != nil {
		return nil, err
	}

	idx := findSubmission(submissions, id)
	if idx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
	}

	user := actor.CurrentUser
	if !submissions[idx].SupportedBy(user.Username) {
		submissions[idx].SupportApprovals = append(submissions[idx].SupportApprovals, models.SupportRecord{
			Approver:     user.Username,
			ApproverName: user.FullName,
			Role:         user.RoleName,
			Timestamp:    s.now(),
		})
		if err := s.saveSubmissions(ctx, submissions); err != nil {
			return nil, err
		}
		s.metrics.RecordWorkflowAction("submission", "support")
	}

	result := submissions[idx]
	return &result, nil
}

// ApproveSubmission records the final approval and moves the submission to
// approved. The mutation applies whenever the submission exists, matching the
// original behaviour: re-approving an already approved item re-stamps the
// final record.
func (s *WorkflowService) ApproveSubmission(ctx context.Context, actor *models.Session, id string) (*models.Submission, error) {
	if !actor.LoggedIn() {
		return nil, appErrors.ErrUnauthenticated
	}
	if !actor.Can(models.CapApproveSubmission) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only ketua media may approve submissions")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	submissions, err := s.loadSubmissions(ctx)
	if err != nil {
		return nil, err
	}

	idx := findSubmission(submissions, id)
	if idx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
	}

	user := actor.CurrentUser
	submissions[idx].Status = models.StatusApproved
	submissions[idx].FinalApproval = &models.FinalRecord{
		Approver:     user.Username,
		ApproverName: user.FullName,
		Timestamp:    s.now(),
	}

	if err := s.saveSubmissions(ctx, submissions); err != nil {
		return nil, err
	}

	s.metrics.RecordWorkflowAction("submission", "approve")
	s.logger.Info("submission approved",
		zap.String("id", id),
		zap.String("approver", user.Username),
	)

	result := submissions[idx]
	return &result, nil
}

// VisibleSubmissions filters the collection by the actor's viewing scope:
// the full set for admin roles, one media type for a unit lead, otherwise
// only the actor's own submissions.
func (s *WorkflowService) VisibleSubmissions(ctx context.Context, actor *models.Session) ([]models.Submission, error) {
	if !actor.LoggedIn() {
		return nil, appErrors.ErrUnauthenticated
	}

	submissions, err := s.loadSubmissions(ctx)
	if err != nil {
		return nil, err
	}

	if actor.Can(models.CapViewAllSubmissions) {
		return submissions, nil
	}

	user := actor.CurrentUser
	visible := make([]models.Submission, 0, len(submissions))
	switch user.Role {
	case models.RoleKetuaVideo:
		for _, sub := range submissions {
			if sub.Type == models.SubmissionVideo {
				visible = append(visible, sub)
			}
		}
	case models.RoleKetuaPoster:
		for _, sub := range submissions {
			if sub.Type == models.SubmissionPoster {
				visible = append(visible, sub)
			}
		}
	default:
		for _, sub := range submissions {
			if sub.SubmittedBy == user.Username {
				visible = append(visible, sub)
			}
		}
	}
	return visible, nil
}

// PendingSubmissions returns the pending approval queue. Actors without any
// approval capability see an empty queue.
func (s *WorkflowService) PendingSubmissions(ctx context.Context, actor *models.Session) ([]models.Submission, error) {
	if !actor.LoggedIn() {
		return nil, appErrors.ErrUnauthenticated
	}
	if !actor.Can(models.CapApproveSubmission) && !actor.Can(models.CapSupportSubmission) {
		return []models.Submission{}, nil
	}

	submissions, err := s.loadSubmissions(ctx)
	if err != nil {
		return nil, err
	}

	pending := make([]models.Submission, 0, len(submissions))
	for _, sub := range submissions {
		if sub.Status == models.StatusPending {
			pending = append(pending, sub)
		}
	}
	return pending, nil
}

// CreateLeave files a new leave request in state pending.
func (s *WorkflowService) CreateLeave(ctx context.Context, actor *models.Session, req dto.CreateLeaveRequest) (*models.LeaveRequest, error) {
	if !actor.LoggedIn() {
		return nil, appErrors.ErrUnauthenticated
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid leave payload")
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid start date")
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid end date")
	}
	if endDate.Before(startDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end date must not precede start date")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	leaves, err := s.loadLeaves(ctx)
	if err != nil {
		return nil, err
	}

	user := actor.CurrentUser
	leave := models.LeaveRequest{
		ID:               s.newID("leave"),
		UserID:           user.Username,
		UserName:         user.FullName,
		UserRole:         user.RoleName,
		Type:             models.LeaveType(req.Type),
		StartDate:        startDate,
		EndDate:          endDate,
		Reason:           req.Reason,
		Status:           models.StatusPending,
		SupportApprovals: []models.SupportRecord{},
		Timestamp:        s.now(),
	}

	leaves = append(leaves, leave)
	if err := s.saveLeaves(ctx, leaves); err != nil {
		return nil, err
	}

	s.metrics.RecordWorkflowAction("leave", "create")
	s.logger.Info("leave request filed",
		zap.String("id", leave.ID),
		zap.String("user", user.Username),
		zap.String("type", string(leave.Type)),
	)
	return &leave, nil
}

// SupportApproveLeave appends a support record for the actor, idempotent per
// approver.
func (s *WorkflowService) SupportApproveLeave(ctx context.Context, actor *models.Session, id string) (*models.LeaveRequest, error) {
	if !actor.LoggedIn() {
		return nil, appErrors.ErrUnauthenticated
	}
	if !actor.Can(models.CapSupportLeave) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "role cannot support leave requests")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	leaves, err := s.loadLeaves(ctx)
	if err != nil {
		return nil, err
	}

	idx := findLeave(leaves, id)
	if idx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "leave request not found")
	}

	user := actor.CurrentUser
	if !leaves[idx].SupportedBy(user.Username) {
		leaves[idx].SupportApprovals = append(leaves[idx].SupportApprovals, models.SupportRecord{
			Approver:     user.Username,
			ApproverName: user.FullName,
			Role:         user.RoleName,
			Timestamp:    s.now(),
		})
		if err := s.saveLeaves(ctx, leaves); err != nil {
			return nil, err
		}
		s.metrics.RecordWorkflowAction("leave", "support")
	}

	result := leaves[idx]
	return &result, nil
}

// ApproveLeave moves the leave request to approved. As with submissions the
// mutation applies whenever the entity exists; leaves record no final
// approver identity.
func (s *WorkflowService) ApproveLeave(ctx context.Context, actor *models.Session, id string) (*models.LeaveRequest, error) {
	if !actor.LoggedIn() {
		return nil, appErrors.ErrUnauthenticated
	}
	if !actor.Can(models.CapApproveLeave) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only ketua media may approve leave requests")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	leaves, err := s.loadLeaves(ctx)
	if err != nil {
		return nil, err
	}

	idx := findLeave(leaves, id)
	if idx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "leave request not found")
	}

	leaves[idx].Status = models.StatusApproved
	if err := s.saveLeaves(ctx, leaves); err != nil {
		return nil, err
	}

	s.metrics.RecordWorkflowAction("leave", "approve")
	s.logger.Info("leave approved",
		zap.String("id", id),
		zap.String("approver", actor.CurrentUser.Username),
	)

	result := leaves[idx]
	return &result, nil
}

// MyLeaves lists the actor's own leave requests.
func (s *WorkflowService) MyLeaves(ctx context.Context, actor *models.Session) ([]models.LeaveRequest, error) {
	if !actor.LoggedIn() {
		return nil, appErrors.ErrUnauthenticated
	}

	leaves, err := s.loadLeaves(ctx)
	if err != nil {
		return nil, err
	}

	mine := make([]models.LeaveRequest, 0, len(leaves))
	for _, leave := range leaves {
		if leave.UserID == actor.CurrentUser.Username {
			mine = append(mine, leave)
		}
	}
	return mine, nil
}

// PendingLeaves returns the pending leave queue for actors holding an
// approval capability; everyone else sees an empty queue.
func (s *WorkflowService) PendingLeaves(ctx context.Context, actor *models.Session) ([]models.LeaveRequest, error) {
	if !actor.LoggedIn() {
		return nil, appErrors.ErrUnauthenticated
	}
	if !actor.Can(models.CapApproveLeave) && !actor.Can(models.CapSupportLeave) {
		return []models.LeaveRequest{}, nil
	}

	leaves, err := s.loadLeaves(ctx)
	if err != nil {
		return nil, err
	}

	pending := make([]models.LeaveRequest, 0, len(leaves))
	for _, leave := range leaves {
		if leave.Status == models.StatusPending {
			pending = append(pending, leave)
		}
	}
	return pending, nil
}

// LeavesOn returns the approved leaves covering the given calendar date.
func (s *WorkflowService) LeavesOn(ctx context.Context, actor *models.Session, date time.Time) ([]models.LeaveRequest, error) {
	if !actor.LoggedIn() {
		return nil, appErrors.ErrUnauthenticated
	}

	leaves, err := s.loadLeaves(ctx)
	if err != nil {
		return nil, err
	}

	covering := make([]models.LeaveRequest, 0, len(leaves))
	for _, leave := range leaves {
		if leave.Covers(date) {
			covering = append(covering, leave)
		}
	}
	return covering, nil
}

// Stats summarises the full submission collection.
func (s *WorkflowService) Stats(ctx context.Context, actor *models.Session) (*dto.DashboardStats, error) {
	if !actor.LoggedIn() {
		return nil, appErrors.ErrUnauthenticated
	}

	submissions, err := s.loadSubmissions(ctx)
	if err != nil {
		return nil, err
	}

	stats := &dto.DashboardStats{TotalSubmissions: len(submissions)}
	for _, sub := range submissions {
		switch sub.Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusApproved:
			stats.Approved++
		case models.StatusRejected:
			stats.Rejected++
		}
	}
	return stats, nil
}

// RecentActivity merges the head of both collections into one feed sorted by
// timestamp, newest first, capped at five entries. The head-then-sort order
// matches the original feed.
func (s *WorkflowService) RecentActivity(ctx context.Context, actor *models.Session) ([]dto.ActivityItem, error) {
	if !actor.LoggedIn() {
		return nil, appErrors.ErrUnauthenticated
	}

	submissions, err := s.loadSubmissions(ctx)
	if err != nil {
		return nil, err
	}
	leaves, err := s.loadLeaves(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ActivityItem, 0, 5)
	for i, sub := range submissions {
		if i >= 3 {
			break
		}
		items = append(items, dto.ActivityItem{
			Kind:      "submission",
			ID:        sub.ID,
			Title:     sub.Title,
			Status:    string(sub.Status),
			Timestamp: sub.Timestamp,
		})
	}
	for i, leave := range leaves {
		if i >= 2 {
			break
		}
		items = append(items, dto.ActivityItem{
			Kind:      "leave",
			ID:        leave.ID,
			Title:     string(leave.Type),
			Status:    string(leave.Status),
			Timestamp: leave.Timestamp,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	if len(items) > 5 {
		items = items[:5]
	}
	return items, nil
}

func (s *WorkflowService) loadSubmissions(ctx context.Context) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := s.store.Get(ctx, store.KeySubmissions, &submissions); err != nil {
		if appErrors.FromError(err).Code == appErrors.ErrKeyNotFound.Code {
			return []models.Submission{}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submissions")
	}
	return submissions, nil
}

func (s *WorkflowService) saveSubmissions(ctx context.Context, submissions []models.Submission) error {
	if err := s.store.Set(ctx, store.KeySubmissions, submissions); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist submissions")
	}
	return nil
}

func (s *WorkflowService) loadLeaves(ctx context.Context) ([]models.LeaveRequest, error) {
	var leaves []models.LeaveRequest
	if err := s.store.Get(ctx, store.KeyLeaves, &leaves); err != nil {
		if appErrors.FromError(err).Code == appErrors.ErrKeyNotFound.Code {
			return []models.LeaveRequest{}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leave requests")
	}
	return leaves, nil
}

func (s *WorkflowService) saveLeaves(ctx context.Context, leaves []models.LeaveRequest) error {
	if err := s.store.Set(ctx, store.KeyLeaves, leaves); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist leave requests")
	}
	return nil
}

func findSubmission(submissions []models.Submission, id string) int {
	for i := range submissions {
		if submissions[i].ID == id {
			return i
		}
	}
	return -1
}

func findLeave(leaves []models.LeaveRequest, id string) int {
	for i := range leaves {
		if leaves[i].ID == id {
			return i
		}
	}
	return -1
}
