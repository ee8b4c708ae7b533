package http_test

import (
	"testing"

	customshttp "customs/internal/adapters/in/http"
	"customs/internal/core/domain/model/wsstatus"

	"github.com/stretchr/testify/assert"
)

func TestBadgeForStatus(t *testing.T) {
	for _, status := range []wsstatus.Status{
		wsstatus.Pending, wsstatus.Validating, wsstatus.Sent,
		wsstatus.Approved, wsstatus.Rejected, wsstatus.Expired,
	} {
		badge := customshttp.BadgeForStatus(status.String())
		assert.NotEmpty(t, badge.Icon, "status %s needs an icon", status)
		assert.NotEmpty(t, badge.Description, "status %s needs a description", status)
	}

	assert.Equal(t, "question", customshttp.BadgeForStatus("bogus").Icon)
}
