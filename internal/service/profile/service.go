package profile

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/oggyb/ember/internal/app"
	"github.com/oggyb/ember/internal/apperr"
	"github.com/oggyb/ember/internal/db"
	"github.com/oggyb/ember/internal/events"
	"github.com/oggyb/ember/internal/policy"
	"github.com/oggyb/ember/internal/repository"
)

// Service owns identity records and the block/report safety records.
type Service struct {
	appCtx   *app.AppContext
	userRepo *repository.UserRepository
	relRepo  *repository.RelationshipRepository
}

// NewService creates the profile service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		userRepo: repository.NewUserRepository(appCtx.DB),
		relRepo:  repository.NewRelationshipRepository(appCtx.DB),
	}
}

// RegisterInput carries the fields needed to create a user.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	Gender      string
	GenderPrefs []string
	Bio         string
}

// Register creates a new user with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*db.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	switch {
	case in.Username == "":
		return nil, apperr.InvalidArgument("username must not be empty")
	case in.Email == "" || !strings.Contains(in.Email, "@"):
		return nil, apperr.InvalidArgument("email is invalid")
	case len(in.Password) < 8:
		return nil, apperr.InvalidArgument("password must be at least 8 characters")
	case in.Gender == "":
		return nil, apperr.InvalidArgument("gender must not be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &db.User{
		ID:           db.NewID(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Gender:       in.Gender,
		GenderPrefs:  strings.Join(in.GenderPrefs, ","),
		Bio:          in.Bio,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser is a public read.
func (s *Service) GetUser(ctx context.Context, userID string) (*db.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile applies owner-only profile edits.
func (s *Service) UpdateProfile(ctx context.Context, callerID, userID string, fields map[string]any) error {
	if err := policy.CanUpdateUser(callerID, userID); err != nil {
		return err
	}

	allowed := map[string]bool{"bio": true, "gender_prefs": true, "lat": true, "lon": true}
	updates := map[string]any{}
	for k, v := range fields {
		if allowed[k] {
			updates[k] = v
		}
	}
	if len(updates) == 0 {
		return apperr.InvalidArgument("no updatable fields provided")
	}

	return s.userRepo.UpdateProfile(ctx, userID, updates)
}

// Block records a block held by the caller. Self-blocks are rejected.
func (s *Service) Block(ctx context.Context, callerID, blockedID string) error {
	if callerID == blockedID {
		return apperr.InvalidArgument("cannot block yourself")
	}
	exists, err := s.userRepo.Exists(ctx, blockedID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("user not found")
	}

	block := &db.Block{
		ID:        db.NewID(),
		BlockerID: callerID,
		BlockedID: blockedID,
	}
	if err := s.relRepo.CreateBlock(ctx, block); err != nil {
		return err
	}
	_ = s.appCtx.Publisher.Publish(ctx, events.KeyUserBlocked, block)
	return nil
}

// Unblock removes the caller's block on a user.
func (s *Service) Unblock(ctx context.Context, callerID, blockedID string) error {
	return s.relRepo.DeleteBlock(ctx, callerID, blockedID)
}

// ListBlocks returns the blocks held by the caller, newest first.
func (s *Service) ListBlocks(ctx context.Context, callerID string) ([]db.Block, error) {
	return s.relRepo.ListBlocks(ctx, callerID)
}

// ListReports returns the reports filed by the caller, newest first.
func (s *Service) ListReports(ctx context.Context, callerID string) ([]db.Report, error) {
	return s.relRepo.ListReports(ctx, callerID)
}

// Report records a report filed by the caller.
func (s *Service) Report(ctx context.Context, callerID, reportedID, reason string) error {
	if callerID == reportedID {
		return apperr.InvalidArgument("cannot report yourself")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return apperr.InvalidArgument("reason must not be empty")
	}

	report := &db.Report{
		ID:         db.NewID(),
		ReporterID: callerID,
		ReportedID: reportedID,
		Reason:     reason,
	}
	if err := s.relRepo.CreateReport(ctx, report); err != nil {
		return err
	}
	_ = s.appCtx.Publisher.Publish(ctx, events.KeyUserReported, report)
	return nil
}
