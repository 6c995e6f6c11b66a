package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/amirhzq/unit-media-api/internal/models"
	"github.com/amirhzq/unit-media-api/internal/store"
	appErrors "github.com/amirhzq/unit-media-api/pkg/errors"
)

// SeedService populates empty collections with sample data attributed to the
// current actor, mirroring the demo data of the original client. The
// "approvals" shadow is written once here and never maintained afterwards; it
// exists for storage-layout compatibility and is never read back for
// decisions.
type SeedService struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
	rng    *rand.Rand
}

// NewSeedService constructs a SeedService.
func NewSeedService(st store.Store, logger *zap.Logger) *SeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedService{
		store:  st,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// EnsureSampleData seeds submissions, the approvals shadow and leaves when
// their collections are absent or empty. Collections that already hold data
// are left untouched.
func (s *SeedService) EnsureSampleData(ctx context.Context, actor *models.Session) error {
	if !actor.LoggedIn() {
		return appErrors.ErrUnauthenticated
	}

	submissions, err := s.loadList(ctx, store.KeySubmissions)
	if err != nil {
		return err
	}

	var seeded []models.Submission
	if submissions == 0 {
		seeded = s.sampleSubmissions(actor.CurrentUser)
		if err := s.store.Set(ctx, store.KeySubmissions, seeded); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed submissions")
		}
	}

	approvals, err := s.loadList(ctx, store.KeyApprovals)
	if err != nil {
		return err
	}
	if approvals == 0 && len(seeded) > 0 {
		shadow := approvalShadow(seeded)
		if err := s.store.Set(ctx, store.KeyApprovals, shadow); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed approvals shadow")
		}
	}

	leaves, err := s.loadList(ctx, store.KeyLeaves)
	if err != nil {
		return err
	}
	if leaves == 0 {
		if err := s.store.Set(ctx, store.KeyLeaves, s.sampleLeaves(actor.CurrentUser)); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed leave requests")
		}
	}

	return nil
}

func (s *SeedService) sampleSubmissions(user *models.UserInfo) []models.Submission {
	statuses := []models.Status{models.StatusPending, models.StatusApproved, models.StatusRejected}
	submissions := make([]models.Submission, 0, 5)

	for i := 1; i <= 5; i++ {
		typ := models.SubmissionPoster
		title := fmt.Sprintf("Campaign Poster %d", i)
		media := models.Media{Kind: models.MediaFile, Locator: fmt.Sprintf("document%d.pdf", i)}
		if i%2 == 1 {
			typ = models.SubmissionVideo
			title = fmt.Sprintf("Promotional Video %d", i)
			media = models.Media{Kind: models.MediaLink, Locator: fmt.Sprintf("https://youtu.be/example%d", i)}
		}

		age := time.Duration(s.rng.Float64() * float64(7*24*time.Hour))
		submissions = append(submissions, models.Submission{
			ID:               fmt.Sprintf("sub_%d", i),
			Type:             typ,
			Title:            title,
			Description:      fmt.Sprintf("This is a sample submission description for item %d", i),
			SubmittedBy:      user.Username,
			SubmitterName:    user.FullName,
			SubmitterRole:    user.RoleName,
			Timestamp:        s.now().Add(-age),
			Status:           statuses[s.rng.Intn(len(statuses))],
			SupportApprovals: []models.SupportRecord{},
			Media:            media,
		})
	}

	return submissions
}

func (s *SeedService) sampleLeaves(user *models.UserInfo) []models.LeaveRequest {
	types := []models.LeaveType{models.LeaveSick, models.LeaveAnnual, models.LeaveEmergency, models.LeavePersonal}
	statuses := []models.Status{models.StatusPending, models.StatusApproved, models.StatusRejected}
	leaves := make([]models.LeaveRequest, 0, 3)

	for i := 1; i <= 3; i++ {
		start := s.now().AddDate(0, 0, s.rng.Intn(30))
		end := start.AddDate(0, 0, s.rng.Intn(5)+1)

		leaves = append(leaves, models.LeaveRequest{
			ID:               fmt.Sprintf("leave_%d", i),
			UserID:           user.Username,
			UserName:         user.FullName,
			UserRole:         user.RoleName,
			Type:             types[i%len(types)],
			StartDate:        start,
			EndDate:          end,
			Reason:           fmt.Sprintf("Leave reason %d", i),
			Status:           statuses[s.rng.Intn(len(statuses))],
			SupportApprovals: []models.SupportRecord{},
			Timestamp:        s.now(),
		})
	}

	return leaves
}

func approvalShadow(submissions []models.Submission) []models.ApprovalShadow {
	shadow := make([]models.ApprovalShadow, 0, len(submissions))
	for _, sub := range submissions {
		if sub.Status != models.StatusPending {
			continue
		}
		shadow = append(shadow, models.ApprovalShadow{
			ID:            "apr_" + sub.ID,
			SubmissionID:  sub.ID,
			Status:        models.StatusPending,
			Supporters:    []string{},
			FinalApprover: models.RoleKetuaMedia,
		})
	}
	return shadow
}

// loadList returns the element count under a collection key, treating a
// missing key as empty.
func (s *SeedService) loadList(ctx context.Context, key string) (int, error) {
	var raw []map[string]interface{}
	if err := s.store.Get(ctx, key, &raw); err != nil {
		if appErrors.FromError(err).Code == appErrors.ErrKeyNotFound.Code {
			return 0, nil
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to inspect collection")
	}
	return len(raw), nil
}
