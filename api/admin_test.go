package api

import (
	"net/http"
	"testing"

	"cascadia/chapter-api/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyApprove(t *testing.T) {
	a := newTestAPI(t)
	chapter := seedChapter(t, a, "lake-washington-hs")
	admin := seedUser(t, a, "admin@example.com", model.RoleChapterAdmin, chapter.ID, model.VerificationApproved)
	student := seedUser(t, a, "student@example.com", model.RoleMember, chapter.ID, model.VerificationPending)

	w := doJSON(t, a, http.MethodPost, "/api/admin/students/"+student.ID+"/verify", map[string]any{
		"approve": true,
	}, cookieFor(t, a, admin))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp userResponse
	decodeBody(t, w, &resp)

	assert.Equal(t, model.VerificationApproved, resp.User.VerificationStatus)
	require.NotNil(t, resp.User.VerifiedByID)
	assert.Equal(t, admin.ID, *resp.User.VerifiedByID)
	assert.NotNil(t, resp.User.VerifiedAt)

	// Scenario B: the approved member can now sign in
	w = doJSON(t, a, http.MethodPost, "/api/auth/sign-in", map[string]any{
		"email":    "student@example.com",
		"password": testPassword,
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestVerifyScope(t *testing.T) {
	a := newTestAPI(t)
	chapter := seedChapter(t, a, "lake-washington-hs")
	other := seedChapter(t, a, "bellevue-hs")

	student := seedUser(t, a, "student@example.com", model.RoleMember, chapter.ID, model.VerificationPending)

	otherAdmin := seedUser(t, a, "other-admin@example.com", model.RoleChapterAdmin, other.ID, model.VerificationApproved)
	member := seedUser(t, a, "member@example.com", model.RoleMember, chapter.ID, model.VerificationApproved)
	platform := seedUser(t, a, "platform@example.com", model.RolePlatformAdmin, "", model.VerificationApproved)

	// Wrong chapter and plain members are rejected
	w := doJSON(t, a, http.MethodPost, "/api/admin/students/"+student.ID+"/verify", map[string]any{
		"approve": true,
	}, cookieFor(t, a, otherAdmin))
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

	w = doJSON(t, a, http.MethodPost, "/api/admin/students/"+student.ID+"/verify", map[string]any{
		"approve": true,
	}, cookieFor(t, a, member))
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

	// Platform admins verify across chapters
	w = doJSON(t, a, http.MethodPost, "/api/admin/students/"+student.ID+"/verify", map[string]any{
		"approve": true,
	}, cookieFor(t, a, platform))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestVerifySelfBlocked(t *testing.T) {
	a := newTestAPI(t)
	chapter := seedChapter(t, a, "lake-washington-hs")
	admin := seedUser(t, a, "admin@example.com", model.RoleChapterAdmin, chapter.ID, model.VerificationApproved)

	w := doJSON(t, a, http.MethodPost, "/api/admin/students/"+admin.ID+"/verify", map[string]any{
		"approve": true,
	}, cookieFor(t, a, admin))
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
}

func TestVerifyApproveTwice(t *testing.T) {
	a := newTestAPI(t)
	chapter := seedChapter(t, a, "lake-washington-hs")
	admin := seedUser(t, a, "admin@example.com", model.RoleChapterAdmin, chapter.ID, model.VerificationApproved)
	student := seedUser(t, a, "student@example.com", model.RoleMember, chapter.ID, model.VerificationApproved)

	w := doJSON(t, a, http.MethodPost, "/api/admin/students/"+student.ID+"/verify", map[string]any{
		"approve": true,
	}, cookieFor(t, a, admin))
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestVerifyReapproveRejected(t *testing.T) {
	a := newTestAPI(t)
	chapter := seedChapter(t, a, "lake-washington-hs")
	admin := seedUser(t, a, "admin@example.com", model.RoleChapterAdmin, chapter.ID, model.VerificationApproved)
	student := seedUser(t, a, "student@example.com", model.RoleMember, chapter.ID, model.VerificationRejected)

	// A rejected member can be approved later
	w := doJSON(t, a, http.MethodPost, "/api/admin/students/"+student.ID+"/verify", map[string]any{
		"approve": true,
	}, cookieFor(t, a, admin))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// But a rejected member can't be rejected again
	student2 := seedUser(t, a, "student2@example.com", model.RoleMember, chapter.ID, model.VerificationRejected)

	w = doJSON(t, a, http.MethodPost, "/api/admin/students/"+student2.ID+"/verify", map[string]any{
		"approve": false,
	}, cookieFor(t, a, admin))
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestVerifyMissingApproveField(t *testing.T) {
	a := newTestAPI(t)
	chapter := seedChapter(t, a, "lake-washington-hs")
	admin := seedUser(t, a, "admin@example.com", model.RoleChapterAdmin, chapter.ID, model.VerificationApproved)
	student := seedUser(t, a, "student@example.com", model.RoleMember, chapter.ID, model.VerificationPending)

	w := doJSON(t, a, http.MethodPost, "/api/admin/students/"+student.ID+"/verify", map[string]any{}, cookieFor(t, a, admin))
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestVerifyUnknownStudent(t *testing.T) {
	a := newTestAPI(t)
	chapter := seedChapter(t, a, "lake-washington-hs")
	admin := seedUser(t, a, "admin@example.com", model.RoleChapterAdmin, chapter.ID, model.VerificationApproved)

	w := doJSON(t, a, http.MethodPost, "/api/admin/students/missing/verify", map[string]any{
		"approve": true,
	}, cookieFor(t, a, admin))
	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}

func TestResetPassword(t *testing.T) {
	a := newTestAPI(t)
	chapter := seedChapter(t, a, "lake-washington-hs")
	admin := seedUser(t, a, "admin@example.com", model.RoleChapterAdmin, chapter.ID, model.VerificationApproved)
	student := seedUser(t, a, "student@example.com", model.RoleMember, chapter.ID, model.VerificationApproved)

	oldCookie := cookieFor(t, a, student)

	w := doJSON(t, a, http.MethodPost, "/api/admin/students/"+student.ID+"/reset-password", nil, cookieFor(t, a, admin))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		TemporaryPassword string `json:"temporaryPassword"`
	}
	decodeBody(t, w, &resp)
	assert.Len(t, resp.TemporaryPassword, 16)

	// The temp password signs in, the old one doesn't
	w = doJSON(t, a, http.MethodPost, "/api/auth/sign-in", map[string]any{
		"email":    "student@example.com",
		"password": resp.TemporaryPassword,
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, a, http.MethodPost, "/api/auth/sign-in", map[string]any{
		"email":    "student@example.com",
		"password": testPassword,
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Reset also kicks out the member's existing sessions
	w = doJSON(t, a, http.MethodHead, "/api/validate", nil, oldCookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestResetPasswordScope(t *testing.T) {
	a := newTestAPI(t)
	chapter := seedChapter(t, a, "lake-washington-hs")
	other := seedChapter(t, a, "bellevue-hs")

	student := seedUser(t, a, "student@example.com", model.RoleMember, chapter.ID, model.VerificationApproved)
	admin := seedUser(t, a, "admin@example.com", model.RoleChapterAdmin, chapter.ID, model.VerificationApproved)

	// Platform admins are deliberately locked out of password resets
	platform := seedUser(t, a, "platform@example.com", model.RolePlatformAdmin, "", model.VerificationApproved)
	w := doJSON(t, a, http.MethodPost, "/api/admin/students/"+student.ID+"/reset-password", nil, cookieFor(t, a, platform))
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

	// So are admins of other chapters
	otherAdmin := seedUser(t, a, "other-admin@example.com", model.RoleChapterAdmin, other.ID, model.VerificationApproved)
	w = doJSON(t, a, http.MethodPost, "/api/admin/students/"+student.ID+"/reset-password", nil, cookieFor(t, a, otherAdmin))
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

	// And resets only target plain members
	w = doJSON(t, a, http.MethodPost, "/api/admin/students/"+admin.ID+"/reset-password", nil, cookieFor(t, a, otherAdmin))
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
}

func TestStudentListScope(t *testing.T) {
	a := newTestAPI(t)
	chapter := seedChapter(t, a, "lake-washington-hs")
	other := seedChapter(t, a, "bellevue-hs")

	admin := seedUser(t, a, "admin@example.com", model.RoleChapterAdmin, chapter.ID, model.VerificationApproved)
	seedUser(t, a, "pending@example.com", model.RoleMember, chapter.ID, model.VerificationPending)
	seedUser(t, a, "approved@example.com", model.RoleMember, chapter.ID, model.VerificationApproved)
	seedUser(t, a, "elsewhere@example.com", model.RoleMember, other.ID, model.VerificationPending)

	var resp struct {
		Students []model.User `json:"students"`
	}

	// Chapter admins only see their own chapter
	w := doJSON(t, a, http.MethodGet, "/api/admin/students", nil, cookieFor(t, a, admin))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeBody(t, w, &resp)
	assert.Len(t, resp.Students, 3)

	// The status filter narrows to pending approvals
	w = doJSON(t, a, http.MethodGet, "/api/admin/students?status=PENDING", nil, cookieFor(t, a, admin))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeBody(t, w, &resp)
	require.Len(t, resp.Students, 1)
	assert.Equal(t, "pending@example.com", resp.Students[0].Email)

	// Members don't get a list at all
	member := seedUser(t, a, "member@example.com", model.RoleMember, chapter.ID, model.VerificationApproved)
	w = doJSON(t, a, http.MethodGet, "/api/admin/students", nil, cookieFor(t, a, member))
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

	w = doJSON(t, a, http.MethodGet, "/api/admin/students?status=NOPE", nil, cookieFor(t, a, admin))
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}
