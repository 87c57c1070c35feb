package group

import (
	"context"
	"errors"

	"github.com/divvyup/divvy/internal/notification"
)

// Common errors
var (
	ErrGroupNotFound       = errors.New("group not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberAlreadyExists = errors.New("user is already a member of this group")
	ErrNotAuthorized       = errors.New("not authorized to perform this action")
	ErrMemberHasActivity   = errors.New("member still appears in the group ledger")
)

// Service handles group business logic
type Service struct {
	repo          *Repository
	notifications *notification.Service
}

// NewService creates a new group service
func NewService(repo *Repository, notifications *notification.Service) *Service {
	return &Service{repo: repo, notifications: notifications}
}

// Create creates a new group and adds the creator as its admin
func (s *Service) Create(ctx context.Context, creatorID int64, req *CreateGroupRequest) (*Group, error) {
	group, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.AddMember(ctx, group.ID, creatorID, MemberRoleAdmin); err != nil {
		return nil, err
	}

	return group, nil
}

// GetByID retrieves a group by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Group, error) {
	group, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

// GetByIDWithMembers retrieves a group with all its members
func (s *Service) GetByIDWithMembers(ctx context.Context, id int64) (*Group, []*GroupMember, error) {
	group, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.repo.GetMembers(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return group, members, nil
}

// ListByUserID retrieves all groups the user belongs to
func (s *Service) ListByUserID(ctx context.Context, userID int64, page, perPage int) ([]*Group, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByUserID(ctx, userID, perPage, offset)
}

// Update modifies a group's name or description. Only an admin may update.
func (s *Service) Update(ctx context.Context, id, requesterID int64, req *UpdateGroupRequest) (*Group, error) {
	if err := s.requireAdmin(ctx, id, requesterID); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrGroupNotFound
	}
	return updated, nil
}

// Delete removes a group. Only an admin may delete.
func (s *Service) Delete(ctx context.Context, id, requesterID int64) error {
	if err := s.requireAdmin(ctx, id, requesterID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// AddMember adds a user to a group. Any existing member may add; the new
// member joins immediately with a zero balance.
func (s *Service) AddMember(ctx context.Context, groupID, requesterID int64, req *AddMemberRequest) (*GroupMember, error) {
	g, err := s.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	requester, err := s.repo.GetMember(ctx, groupID, requesterID)
	if err != nil {
		return nil, err
	}
	if requester == nil {
		return nil, ErrNotAuthorized
	}

	existing, err := s.repo.GetMember(ctx, groupID, req.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrMemberAlreadyExists
	}

	role := req.Role
	if role == "" {
		role = MemberRoleMember
	}

	member, err := s.repo.AddMember(ctx, groupID, req.UserID, role)
	if err != nil {
		return nil, err
	}

	// Best effort; the membership is already committed.
	_, _ = s.notifications.NotifyMemberAdded(ctx, member.UserID, g.Name, g.ID)

	return member, nil
}

// GetMembers retrieves all members of a group
func (s *Service) GetMembers(ctx context.Context, groupID int64) ([]*GroupMember, error) {
	if _, err := s.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	return s.repo.GetMembers(ctx, groupID)
}

// RemoveMember removes a user from a group. A member may leave on their
// own; removing someone else requires admin. A member who still appears
// in the ledger cannot be removed, because dropping them would break the
// zero-sum invariant of the group's balances.
func (s *Service) RemoveMember(ctx context.Context, groupID, requesterID, userID int64) error {
	if requesterID != userID {
		if err := s.requireAdmin(ctx, groupID, requesterID); err != nil {
			return err
		}
	}

	active, err := s.repo.MemberHasActivity(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if active {
		return ErrMemberHasActivity
	}

	return s.repo.RemoveMember(ctx, groupID, userID)
}

func (s *Service) requireAdmin(ctx context.Context, groupID, userID int64) error {
	member, err := s.repo.GetMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if member == nil {
		if _, err := s.GetByID(ctx, groupID); err != nil {
			return err
		}
		return ErrNotAuthorized
	}
	if member.Role != MemberRoleAdmin {
		return ErrNotAuthorized
	}
	return nil
}
