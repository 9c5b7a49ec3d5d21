package apperr_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oggyb/ember/internal/apperr"
)

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, apperr.HTTPStatus(apperr.InvalidArgument("bad")))
	assert.Equal(t, http.StatusForbidden, apperr.HTTPStatus(apperr.Forbidden("no")))
	assert.Equal(t, http.StatusNotFound, apperr.HTTPStatus(apperr.NotFound("gone")))
	assert.Equal(t, http.StatusConflict, apperr.HTTPStatus(apperr.ErrDuplicateSwipe))
	assert.Equal(t, http.StatusServiceUnavailable, apperr.HTTPStatus(apperr.ErrUnavailable))
}

func TestMessageMasksStorageDetail(t *testing.T) {
	wrapped := fmt.Errorf("%w: dial tcp 10.0.0.1:3306: connection refused", apperr.ErrUnavailable)
	assert.Equal(t, "storage unavailable", apperr.Message(wrapped))

	assert.Equal(t, "internal error", apperr.Message(fmt.Errorf("pq: deadlock detected")))
	assert.Equal(t, "gone", apperr.Message(apperr.NotFound("gone")))
}
