package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"
	"carrental-backend/internal/security"
)

type staffService struct {
	staffRepo repository.StaffRepository
	tokens    security.TokenManager
	emailSvc  EmailService
	baseURL   string
}

func NewStaffService(staffRepo repository.StaffRepository, tokens security.TokenManager, emailSvc EmailService, baseURL string) StaffService {
	return &staffService{
		staffRepo: staffRepo,
		tokens:    tokens,
		emailSvc:  emailSvc,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

func (s *staffService) Invite(ctx context.Context, invitedBy, email, name string, role domain.StaffRole) (*domain.Staff, error) {
	logger.EnterMethod("staffService.Invite", "invitedBy", invitedBy, "email", email, "role", role)

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email %q", ErrInvalidInput, email)
	}
	if role == "" {
		role = domain.StaffRoleAgent
	}
	if role != domain.StaffRoleAdmin && role != domain.StaffRoleAgent {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	if _, err := s.staffRepo.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("staff %s already invited: %w", email, ErrConflict)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	staff := &domain.Staff{Email: email, Name: name, Role: role, InvitedBy: invitedBy}
	if err := s.staffRepo.Create(ctx, staff); err != nil {
		logger.ExitMethodWithError("staffService.Invite", err)
		return nil, fmt.Errorf("failed to create staff: %w", err)
	}

	token, err := s.tokens.GenerateInvitationToken(staff.ID, email, strings.ToLower(string(role)))
	if err != nil {
		return nil, fmt.Errorf("failed to sign invitation: %w", err)
	}
	link := fmt.Sprintf("%s/staff/signup?token=%s", s.baseURL, url.QueryEscape(token))
	if err := s.emailSvc.SendStaffInvitation(ctx, email, name, link); err != nil {
		logger.ExitMethodWithError("staffService.Invite", err)
		return nil, err
	}

	logger.ExitMethod("staffService.Invite", "staffID", staff.ID)
	return staff, nil
}

// Signup links an identity-provider user to the invited staff record
func (s *staffService) Signup(ctx context.Context, token, userID string) (*domain.Staff, error) {
	logger.EnterMethod("staffService.Signup", "userID", userID)

	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	claims, err := s.tokens.ValidateToken(token, security.TokenTypeInvitation)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	staff, err := s.staffRepo.GetByEmail(ctx, claims.Email)
	if err != nil {
		return nil, translate(err, "invitation")
	}
	if staff.ID != claims.StaffID {
		return nil, fmt.Errorf("%w: invitation does not match staff record", ErrUnauthorized)
	}
	if staff.UserID != nil {
		return nil, fmt.Errorf("invitation already used: %w", ErrConflict)
	}

	if err := s.staffRepo.LinkUser(ctx, staff.ID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("invitation already used: %w", ErrConflict)
		}
		return nil, err
	}
	staff.UserID = &userID

	logger.ExitMethod("staffService.Signup", "staffID", staff.ID)
	return staff, nil
}
