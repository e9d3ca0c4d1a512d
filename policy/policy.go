// Package policy contains the pure authorization decision functions gating
// every workflow transition. Nothing in here touches the database or the
// transport layer: callers pass an actor snapshot plus the target entity and
// get back an allow/deny verdict with a machine-readable reason, so every
// role/status combination can be unit-tested in isolation.
package policy

import "cascadia/chapter-api/model"

type Reason string

const (
	ReasonNone            Reason = ""
	ReasonUnauthenticated Reason = "UNAUTHENTICATED"
	ReasonForbiddenRole   Reason = "FORBIDDEN_ROLE"
	ReasonChapterMismatch Reason = "FORBIDDEN_CHAPTER_MISMATCH"
	ReasonNotOwner        Reason = "FORBIDDEN_NOT_OWNER"
	ReasonSelf            Reason = "FORBIDDEN_SELF"
	ReasonNotVerified     Reason = "FORBIDDEN_NOT_VERIFIED"
	ReasonInvalidState    Reason = "INVALID_STATE"
	ReasonNotFound        Reason = "NOT_FOUND"
)

// Actor is the request-scoped snapshot of whoever is acting. A nil *Actor
// means the request is anonymous
type Actor struct {
	ID        string
	Role      model.Role
	ChapterID string
	Verified  bool
}

type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(r Reason) Decision {
	return Decision{Reason: r}
}

// moderates decides whether a may moderate entities belonging to chapterID.
// Platform admins moderate everything, chapter admins only their own chapter
func moderates(a *Actor, chapterID string) Decision {
	switch a.Role {
	case model.RolePlatformAdmin:
		return allow()
	case model.RoleChapterAdmin:
		if a.ChapterID != chapterID {
			return deny(ReasonChapterMismatch)
		}

		return allow()
	case model.RoleMember:
		return deny(ReasonForbiddenRole)
	default:
		return deny(ReasonForbiddenRole)
	}
}

func chapterOf(u *model.User) string {
	if u.ChapterID == nil {
		return ""
	}

	return *u.ChapterID
}

// CanVerifyMember gates the membership approval workflow. Self-verification
// is blocked outright, no matter the role
func CanVerifyMember(a *Actor, target *model.User) Decision {
	if a == nil {
		return deny(ReasonUnauthenticated)
	}

	if a.ID == target.ID {
		return deny(ReasonSelf)
	}

	return moderates(a, chapterOf(target))
}

// VerificationSources returns the statuses a verification verdict is allowed
// to transition from. Re-approval of a rejected member is permitted, every
// other repeat verdict is an invalid state
func VerificationSources(approve bool) []model.VerificationStatus {
	if approve {
		return []model.VerificationStatus{model.VerificationPending, model.VerificationRejected}
	}

	return []model.VerificationStatus{model.VerificationPending}
}

// CanResetMemberPassword gates the admin password reset. Deliberately
// restricted to the member's own chapter admin: platform admins are excluded
// so a platform-level compromise can't rotate every member's credentials
func CanResetMemberPassword(a *Actor, target *model.User) Decision {
	if a == nil {
		return deny(ReasonUnauthenticated)
	}

	if a.Role != model.RoleChapterAdmin {
		return deny(ReasonForbiddenRole)
	}

	if target.Role != model.RoleMember {
		return deny(ReasonForbiddenRole)
	}

	if chapterOf(target) != a.ChapterID {
		return deny(ReasonChapterMismatch)
	}

	return allow()
}

// CanCreatePost requires a signed-in, verified author
func CanCreatePost(a *Actor) Decision {
	if a == nil {
		return deny(ReasonUnauthenticated)
	}

	if !a.Verified {
		return deny(ReasonNotVerified)
	}

	return allow()
}

// CanViewPost applies the visibility rule: posts that aren't APPROVED or
// FILLED exist only for their author, their chapter's admin and platform
// admins. Everyone else gets NOT_FOUND rather than FORBIDDEN so the response
// never confirms the post exists
func CanViewPost(a *Actor, p *model.ResourcePost) Decision {
	if p.PubliclyVisible() {
		return allow()
	}

	if a == nil {
		return deny(ReasonNotFound)
	}

	if a.ID == p.AuthorID {
		return allow()
	}

	switch a.Role {
	case model.RolePlatformAdmin:
		return allow()
	case model.RoleChapterAdmin:
		if a.ChapterID == p.ChapterID {
			return allow()
		}

		return deny(ReasonNotFound)
	case model.RoleMember:
		return deny(ReasonNotFound)
	default:
		return deny(ReasonNotFound)
	}
}

// CanReviewPost gates approve/reject. Only PENDING posts are reviewable, and
// only by a moderator of the post's chapter
func CanReviewPost(a *Actor, p *model.ResourcePost) Decision {
	if a == nil {
		return deny(ReasonUnauthenticated)
	}

	if d := moderates(a, p.ChapterID); !d.Allowed {
		return d
	}

	if p.Status != model.PostStatusPending {
		return deny(ReasonInvalidState)
	}

	return allow()
}

// CanFillPost gates fulfillment. Any verified user except the author may
// fill, but only from APPROVED
func CanFillPost(a *Actor, p *model.ResourcePost) Decision {
	if a == nil {
		return deny(ReasonUnauthenticated)
	}

	if !a.Verified {
		return deny(ReasonNotVerified)
	}

	if a.ID == p.AuthorID {
		return deny(ReasonSelf)
	}

	if p.Status != model.PostStatusApproved {
		return deny(ReasonInvalidState)
	}

	return allow()
}

// CanClosePost lets the author or a platform admin retire an APPROVED post
func CanClosePost(a *Actor, p *model.ResourcePost) Decision {
	if a == nil {
		return deny(ReasonUnauthenticated)
	}

	if a.ID != p.AuthorID && a.Role != model.RolePlatformAdmin {
		return deny(ReasonNotOwner)
	}

	if p.Status != model.PostStatusApproved {
		return deny(ReasonInvalidState)
	}

	return allow()
}

// CanDeletePost lets the author or a platform admin hard-delete from any
// status. Anyone who couldn't even see the post gets NOT_FOUND instead of
// FORBIDDEN
func CanDeletePost(a *Actor, p *model.ResourcePost) Decision {
	if a == nil {
		return deny(ReasonUnauthenticated)
	}

	if a.ID == p.AuthorID || a.Role == model.RolePlatformAdmin {
		return allow()
	}

	if view := CanViewPost(a, p); !view.Allowed {
		return deny(ReasonNotFound)
	}

	return deny(ReasonNotOwner)
}

// CanComment permits verified users to comment while the post is APPROVED or
// FILLED. On a hidden post the denial is NOT_FOUND, mirroring CanViewPost
func CanComment(a *Actor, p *model.ResourcePost) Decision {
	if a == nil {
		return deny(ReasonUnauthenticated)
	}

	if !a.Verified {
		return deny(ReasonNotVerified)
	}

	if !p.PubliclyVisible() {
		if view := CanViewPost(a, p); !view.Allowed {
			return deny(ReasonNotFound)
		}

		return deny(ReasonInvalidState)
	}

	return allow()
}
