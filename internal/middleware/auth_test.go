package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/vikram-2101/project-manager-app/internal/apperrors"
	"github.com/vikram-2101/project-manager-app/internal/auth"
	"github.com/vikram-2101/project-manager-app/internal/models"
	"github.com/vikram-2101/project-manager-app/internal/types"
)

type stubUserRepo struct {
	users map[uint]*models.User
}

func (r *stubUserRepo) Create(user *models.User) error { return nil }

func (r *stubUserRepo) FindByID(id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("user not found")
	}
	return u, nil
}

func (r *stubUserRepo) FindByEmail(email string) (*models.User, error) {
	return nil, apperrors.NotFound("user not found")
}

func (r *stubUserRepo) FindByIDs(ids []uint) ([]models.User, error) { return nil, nil }

func (r *stubUserRepo) List() ([]models.User, error) { return nil, nil }

func (r *stubUserRepo) UpdateRole(id uint, role string) error { return nil }

func (r *stubUserRepo) CountAll() (int64, error) { return 0, nil }

func newTestRouter(repo *stubUserRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(repo), func(ctx *gin.Context) {
		user := ctx.MustGet(types.ContextUserKey).(AuthenticatedUser)
		ctx.JSON(http.StatusOK, gin.H{"id": user.ID, "role": user.Role})
	})
	return r
}

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	if err := auth.InitJWTSecret(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	r := newTestRouter(&stubUserRepo{users: map[uint]*models.User{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthMiddlewareRejectsMalformedHeader(t *testing.T) {
	r := newTestRouter(&stubUserRepo{users: map[uint]*models.User{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic abc123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthMiddlewareRejectsGarbageToken(t *testing.T) {
	r := newTestRouter(&stubUserRepo{users: map[uint]*models.User{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthMiddlewareRejectsUnknownUser(t *testing.T) {
	r := newTestRouter(&stubUserRepo{users: map[uint]*models.User{}})

	token, err := auth.GenerateJWT(42, "ghost@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for deleted user, got %d", w.Code)
	}
}

func TestAuthMiddlewareAcceptsBearerToken(t *testing.T) {
	user := &models.User{Name: "alice", Email: "alice@example.com", Role: models.RoleTeamMember}
	user.ID = 7
	r := newTestRouter(&stubUserRepo{users: map[uint]*models.User{7: user}})

	token, err := auth.GenerateJWT(user.ID, user.Email)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareAcceptsCookieToken(t *testing.T) {
	user := &models.User{Name: "alice", Email: "alice@example.com", Role: models.RoleAdmin}
	user.ID = 7
	r := newTestRouter(&stubUserRepo{users: map[uint]*models.User{7: user}})

	token, err := auth.GenerateJWT(user.ID, user.Email)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}
