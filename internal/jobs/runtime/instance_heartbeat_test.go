package runtime

import (
	"strings"
	"testing"
)

func TestHeartbeatKeyCarriesInstanceID(t *testing.T) {
	key := heartbeatKey(instanceID)

	if !strings.HasPrefix(key, instanceKeyPrefix) {
		t.Fatalf("heartbeat key %q lacks prefix %q", key, instanceKeyPrefix)
	}
	if key == instanceKeyPrefix {
		t.Fatal("instance ID is empty")
	}
	if heartbeatKey("other") == key {
		t.Fatal("heartbeat key ignores the instance ID")
	}
}
