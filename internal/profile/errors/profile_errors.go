package profileerrors

import "go-clockin/internal/shared/apperror"

var ErrProfileFetchFailed = apperror.New(
	apperror.CodeProfileFetchFailed,
	"Could not load user profile",
	0,
)
