package service

import "errors"

var (
	// ErrUserNotFound is returned when a user id does not resolve.
	ErrUserNotFound = errors.New("user not found")
	// ErrArticleNotFound is returned when an article id does not resolve.
	ErrArticleNotFound = errors.New("article not found")
	// ErrOwnerNotFound is returned when the supplied ownerId does not resolve to a user.
	ErrOwnerNotFound = errors.New("owner not found")
	// ErrUpdateForbidden is returned when the caller's ownerId differs from the article owner.
	ErrUpdateForbidden = errors.New("unauthorized to update this article")
	// ErrDeleteForbidden is returned when the caller's ownerId differs from the article owner.
	ErrDeleteForbidden = errors.New("unauthorized to delete this article")
)
