package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jrsteele09/recruit-console/token"
)

// User is a console account. Every call in this file requires the admin role.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	State    bool   `json:"state"`
}

func (u *User) IsAdmin() bool {
	return u.Role == token.RoleAdmin
}

type roleChange struct {
	NewRole string `json:"new_role" validate:"required,oneof=admin usuario"`
}

type rename struct {
	NewUsername string `json:"new_username" validate:"required"`
}

type PasswordChange struct {
	NuevaPassword string `json:"nueva_password" validate:"required"`
	Confirmacion  string `json:"confirmacion" validate:"required,eqfield=NuevaPassword"`
}

type UsernameUpdate struct {
	ID          int    `json:"id"`
	UserID      int    `json:"user_id"`
	UsernameOld string `json:"username_old"`
	UsernameNew string `json:"username_new"`
	UpdatedBy   string `json:"updated_by"`
	DateUpdate  string `json:"date_update"`
}

type PasswordChangeLog struct {
	ID          int    `json:"id"`
	UserID      int    `json:"user_id"`
	ChangedBy   string `json:"changed_by"`
	DateChanged string `json:"date_changed"`
}

// UserAudit lists the username and password changes made to one account.
type UserAudit struct {
	Updates         []UsernameUpdate    `json:"updates"`
	PasswordChanges []PasswordChangeLog `json:"password_changes"`
}

func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := s.get(ctx, "/usuarios/", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ChangeRole sets the user's role to token.RoleAdmin or token.RoleUser.
func (s *Service) ChangeRole(ctx context.Context, userID int, role string) (*ActionResult, error) {
	body := roleChange{NewRole: role}
	if err := s.check("ChangeRole", body); err != nil {
		return nil, err
	}
	var result ActionResult
	if err := s.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/usuarios/%d/rol", userID), body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) RenameUser(ctx context.Context, userID int, username string) (*ActionResult, error) {
	body := rename{NewUsername: username}
	if err := s.check("RenameUser", body); err != nil {
		return nil, err
	}
	var result ActionResult
	if err := s.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/usuarios/%d/editar", userID), body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) EnableUser(ctx context.Context, userID int) (*ActionResult, error) {
	return s.action(ctx, http.MethodPut, fmt.Sprintf("/usuarios/%d/activar", userID))
}

func (s *Service) DisableUser(ctx context.Context, userID int) (*ActionResult, error) {
	return s.action(ctx, http.MethodPut, fmt.Sprintf("/usuarios/%d/desactivar", userID))
}

// ChangePassword fails locally when the confirmation does not match.
func (s *Service) ChangePassword(ctx context.Context, userID int, change PasswordChange) (*ActionResult, error) {
	if err := s.check("ChangePassword", change); err != nil {
		return nil, err
	}
	var result ActionResult
	if err := s.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/usuarios/%d/password", userID), change, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) UserAudit(ctx context.Context, userID int) (*UserAudit, error) {
	var audit UserAudit
	if err := s.get(ctx, fmt.Sprintf("/usuarios/%d/auditoria", userID), nil, &audit); err != nil {
		return nil, err
	}
	return &audit, nil
}
