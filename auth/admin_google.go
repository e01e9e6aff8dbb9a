package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	firebase "firebase.google.com/go"
	fbauth "firebase.google.com/go/auth"
	"github.com/junaidrashid-git/fastfood-pos/models"
	"github.com/junaidrashid-git/fastfood-pos/store"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GoogleIdentity is the verified content of a Firebase ID token.
type GoogleIdentity struct {
	UID      string
	Email    string
	Name     string
	Picture  string
	Audience string
}

type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (GoogleIdentity, error)
}

// NewFirebaseApp initializes Firebase from the service-account JSON itself, no file.
func NewFirebaseApp(ctx context.Context, credentialsJSON, projectID string) (*firebase.App, error) {
	opt := option.WithCredentialsJSON([]byte(credentialsJSON))
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opt)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	return app, nil
}

// FirebaseVerifier checks ID tokens, including revocation, against Firebase Auth.
type FirebaseVerifier struct {
	client    *fbauth.Client
	projectID string
}

func NewFirebaseVerifier(ctx context.Context, app *firebase.App, projectID string) (*FirebaseVerifier, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("get firebase auth client: %w", err)
	}
	return &FirebaseVerifier{client: client, projectID: projectID}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (GoogleIdentity, error) {
	token, err := v.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return GoogleIdentity{}, err
	}
	if token.Audience != v.projectID {
		return GoogleIdentity{}, fmt.Errorf("token audience mismatch: got %q", token.Audience)
	}
	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)
	picture, _ := token.Claims["picture"].(string)
	return GoogleIdentity{
		UID:      token.UID,
		Email:    email,
		Name:     name,
		Picture:  picture,
		Audience: token.Audience,
	}, nil
}

// GoogleLogin signs an operator in with a Firebase ID token. Unknown emails are
// registered as pending; the super admin email is always let through.
func (s *Service) GoogleLogin(ctx context.Context, idToken string) (string, models.Admin, error) {
	if s.verifier == nil {
		return "", models.Admin{}, ErrGoogleUnavailable
	}
	id, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		s.logger.Warn("❌ ID token verification failed", zap.Error(err))
		return "", models.Admin{}, ErrInvalidToken
	}
	if strings.TrimSpace(id.Email) == "" {
		return "", models.Admin{}, fmt.Errorf("%w: email not found in token", ErrInvalidToken)
	}

	admin, err := s.admins.AdminByEmail(ctx, id.Email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		admin = models.Admin{
			Username:  id.Email,
			Email:     id.Email,
			Name:      id.Name,
			Picture:   id.Picture,
			Role:      models.RoleAdmin,
			CreatedAt: s.now().UTC(),
		}
		if s.isSuperAdmin("", id.Email) {
			admin.Role = models.RoleSuperAdmin
			admin.Approved = true
		}
		if err := s.admins.CreateAdmin(ctx, &admin); err != nil {
			return "", models.Admin{}, err
		}
		if !admin.Approved {
			s.logger.Info("📝 new admin registered, pending approval", zap.String("email", id.Email))
			return "", admin, ErrPendingApproval
		}
	case err != nil:
		return "", models.Admin{}, err
	default:
		if admin.Name != id.Name || admin.Picture != id.Picture {
			admin.Name, admin.Picture = id.Name, id.Picture
			if err := s.admins.UpdateAdmin(ctx, &admin); err != nil {
				return "", models.Admin{}, err
			}
		}
	}

	if s.isSuperAdmin(admin.Username, admin.Email) {
		admin.Role = models.RoleSuperAdmin
		admin.Approved = true
	}
	if !admin.Approved {
		return "", admin, ErrPendingApproval
	}
	token, err := s.IssueToken(admin)
	return token, admin, err
}
