package policy

import (
	"testing"

	"cascadia/chapter-api/model"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string {
	return &s
}

func platformAdmin() *Actor {
	return &Actor{ID: "padmin", Role: model.RolePlatformAdmin, Verified: true}
}

func chapterAdmin(chapter string) *Actor {
	return &Actor{ID: "cadmin-" + chapter, Role: model.RoleChapterAdmin, ChapterID: chapter, Verified: true}
}

func member(id, chapter string, verified bool) *Actor {
	return &Actor{ID: id, Role: model.RoleMember, ChapterID: chapter, Verified: verified}
}

func post(author, chapter string, status model.PostStatus) *model.ResourcePost {
	return &model.ResourcePost{ID: "p1", AuthorID: author, ChapterID: chapter, Status: status}
}

func TestCanVerifyMember(t *testing.T) {
	target := &model.User{ID: "u1", Role: model.RoleMember, ChapterID: strPtr("ch1")}

	tests := []struct {
		name   string
		actor  *Actor
		want   bool
		reason Reason
	}{
		{"anonymous", nil, false, ReasonUnauthenticated},
		{"platform admin", platformAdmin(), true, ReasonNone},
		{"chapter admin same chapter", chapterAdmin("ch1"), true, ReasonNone},
		{"chapter admin other chapter", chapterAdmin("ch2"), false, ReasonChapterMismatch},
		{"member", member("m1", "ch1", true), false, ReasonForbiddenRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := CanVerifyMember(tt.actor, target)
			assert.Equal(t, tt.want, d.Allowed)
			assert.Equal(t, tt.reason, d.Reason)
		})
	}
}

func TestCanVerifyMemberBlocksSelf(t *testing.T) {
	admin := chapterAdmin("ch1")
	target := &model.User{ID: admin.ID, Role: model.RoleChapterAdmin, ChapterID: strPtr("ch1")}

	d := CanVerifyMember(admin, target)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonSelf, d.Reason)
}

func TestVerificationSources(t *testing.T) {
	assert.ElementsMatch(t,
		[]model.VerificationStatus{model.VerificationPending, model.VerificationRejected},
		VerificationSources(true))

	assert.ElementsMatch(t,
		[]model.VerificationStatus{model.VerificationPending},
		VerificationSources(false))
}

func TestCanResetMemberPassword(t *testing.T) {
	target := &model.User{ID: "u1", Role: model.RoleMember, ChapterID: strPtr("ch1")}

	tests := []struct {
		name   string
		actor  *Actor
		target *model.User
		want   bool
		reason Reason
	}{
		{"anonymous", nil, target, false, ReasonUnauthenticated},
		// Platform admins are deliberately excluded from password resets
		{"platform admin", platformAdmin(), target, false, ReasonForbiddenRole},
		{"chapter admin same chapter", chapterAdmin("ch1"), target, true, ReasonNone},
		{"chapter admin other chapter", chapterAdmin("ch2"), target, false, ReasonChapterMismatch},
		{"member", member("m1", "ch1", true), target, false, ReasonForbiddenRole},
		{"target not a member", chapterAdmin("ch1"),
			&model.User{ID: "u2", Role: model.RoleChapterAdmin, ChapterID: strPtr("ch1")},
			false, ReasonForbiddenRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := CanResetMemberPassword(tt.actor, tt.target)
			assert.Equal(t, tt.want, d.Allowed)
			assert.Equal(t, tt.reason, d.Reason)
		})
	}
}

func TestCanCreatePost(t *testing.T) {
	assert.False(t, CanCreatePost(nil).Allowed)
	assert.Equal(t, ReasonUnauthenticated, CanCreatePost(nil).Reason)

	unverified := member("m1", "ch1", false)
	assert.Equal(t, ReasonNotVerified, CanCreatePost(unverified).Reason)

	assert.True(t, CanCreatePost(member("m1", "ch1", true)).Allowed)
}

func TestCanViewPost(t *testing.T) {
	statuses := []model.PostStatus{
		model.PostStatusPending,
		model.PostStatusApproved,
		model.PostStatusRejected,
		model.PostStatusFilled,
		model.PostStatusClosed,
	}

	for _, status := range statuses {
		p := post("author", "ch1", status)
		public := status == model.PostStatusApproved || status == model.PostStatusFilled

		assert.Equal(t, public, CanViewPost(nil, p).Allowed, "anonymous, %s", status)
		assert.Equal(t, public, CanViewPost(member("other", "ch1", true), p).Allowed, "other member, %s", status)
		assert.Equal(t, public, CanViewPost(chapterAdmin("ch2"), p).Allowed, "other chapter admin, %s", status)

		// Author, chapter admin and platform admin always see the post
		assert.True(t, CanViewPost(member("author", "ch1", true), p).Allowed, "author, %s", status)
		assert.True(t, CanViewPost(chapterAdmin("ch1"), p).Allowed, "chapter admin, %s", status)
		assert.True(t, CanViewPost(platformAdmin(), p).Allowed, "platform admin, %s", status)
	}

	// Hidden posts deny with NOT_FOUND, never FORBIDDEN
	d := CanViewPost(member("other", "ch1", true), post("author", "ch1", model.PostStatusPending))
	assert.Equal(t, ReasonNotFound, d.Reason)
}

func TestCanReviewPost(t *testing.T) {
	pending := post("author", "ch1", model.PostStatusPending)

	assert.Equal(t, ReasonUnauthenticated, CanReviewPost(nil, pending).Reason)
	assert.Equal(t, ReasonForbiddenRole, CanReviewPost(member("m1", "ch1", true), pending).Reason)
	assert.Equal(t, ReasonChapterMismatch, CanReviewPost(chapterAdmin("ch2"), pending).Reason)
	assert.True(t, CanReviewPost(chapterAdmin("ch1"), pending).Allowed)
	assert.True(t, CanReviewPost(platformAdmin(), pending).Allowed)

	// Only PENDING posts are reviewable
	for _, status := range []model.PostStatus{
		model.PostStatusApproved,
		model.PostStatusRejected,
		model.PostStatusFilled,
		model.PostStatusClosed,
	} {
		d := CanReviewPost(chapterAdmin("ch1"), post("author", "ch1", status))
		assert.False(t, d.Allowed, "%s", status)
		assert.Equal(t, ReasonInvalidState, d.Reason, "%s", status)
	}
}

func TestCanFillPost(t *testing.T) {
	approved := post("author", "ch1", model.PostStatusApproved)

	assert.Equal(t, ReasonUnauthenticated, CanFillPost(nil, approved).Reason)
	assert.Equal(t, ReasonNotVerified, CanFillPost(member("m1", "ch1", false), approved).Reason)
	assert.Equal(t, ReasonSelf, CanFillPost(member("author", "ch1", true), approved).Reason)

	// Filling isn't chapter-scoped, any verified user may claim fulfillment
	assert.True(t, CanFillPost(member("m1", "ch2", true), approved).Allowed)
	assert.True(t, CanFillPost(chapterAdmin("ch1"), approved).Allowed)

	for _, status := range []model.PostStatus{
		model.PostStatusPending,
		model.PostStatusRejected,
		model.PostStatusFilled,
		model.PostStatusClosed,
	} {
		d := CanFillPost(member("m1", "ch1", true), post("author", "ch1", status))
		assert.Equal(t, ReasonInvalidState, d.Reason, "%s", status)
	}
}

func TestCanClosePost(t *testing.T) {
	approved := post("author", "ch1", model.PostStatusApproved)

	assert.Equal(t, ReasonUnauthenticated, CanClosePost(nil, approved).Reason)
	assert.Equal(t, ReasonNotOwner, CanClosePost(member("other", "ch1", true), approved).Reason)
	// Chapter admins moderate reviews, closing stays with the author
	assert.Equal(t, ReasonNotOwner, CanClosePost(chapterAdmin("ch1"), approved).Reason)

	assert.True(t, CanClosePost(member("author", "ch1", true), approved).Allowed)
	assert.True(t, CanClosePost(platformAdmin(), approved).Allowed)

	d := CanClosePost(member("author", "ch1", true), post("author", "ch1", model.PostStatusFilled))
	assert.Equal(t, ReasonInvalidState, d.Reason)
}

func TestCanDeletePost(t *testing.T) {
	for _, status := range []model.PostStatus{
		model.PostStatusPending,
		model.PostStatusApproved,
		model.PostStatusRejected,
		model.PostStatusFilled,
		model.PostStatusClosed,
	} {
		p := post("author", "ch1", status)

		// Author and platform admin can delete in any state
		assert.True(t, CanDeletePost(member("author", "ch1", true), p).Allowed, "%s", status)
		assert.True(t, CanDeletePost(platformAdmin(), p).Allowed, "%s", status)
	}

	approved := post("author", "ch1", model.PostStatusApproved)
	pending := post("author", "ch1", model.PostStatusPending)

	// A non-owner who can see the post gets FORBIDDEN, one who can't gets
	// NOT_FOUND
	assert.Equal(t, ReasonNotOwner, CanDeletePost(member("other", "ch1", true), approved).Reason)
	assert.Equal(t, ReasonNotFound, CanDeletePost(member("other", "ch1", true), pending).Reason)
	assert.Equal(t, ReasonNotOwner, CanDeletePost(chapterAdmin("ch1"), pending).Reason)
	assert.Equal(t, ReasonUnauthenticated, CanDeletePost(nil, approved).Reason)
}

func TestCanComment(t *testing.T) {
	approved := post("author", "ch1", model.PostStatusApproved)
	filled := post("author", "ch1", model.PostStatusFilled)
	pending := post("author", "ch1", model.PostStatusPending)

	assert.Equal(t, ReasonUnauthenticated, CanComment(nil, approved).Reason)
	assert.Equal(t, ReasonNotVerified, CanComment(member("m1", "ch1", false), approved).Reason)

	assert.True(t, CanComment(member("m1", "ch1", true), approved).Allowed)
	assert.True(t, CanComment(member("m1", "ch1", true), filled).Allowed)

	// The author sees their pending post but still can't comment on it
	assert.Equal(t, ReasonInvalidState, CanComment(member("author", "ch1", true), pending).Reason)
	// Someone who can't see it learns nothing
	assert.Equal(t, ReasonNotFound, CanComment(member("other", "ch1", true), pending).Reason)
}
