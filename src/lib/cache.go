package lib

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"portal/src/config"

	"github.com/redis/go-redis/v9"
)

// PortalLoginCode is the payload cached between sending a login email
// and the customer entering the code.
type PortalLoginCode struct {
	Code      string `json:"code"`
	PortalURL string `json:"portal_url"`
}

func loginCodeKey(portalId string, email string) string {
	return fmt.Sprintf("portal-login-code:%s:%s", portalId, email)
}

func SetPortalLoginCode(ctx context.Context, portalId string, email string, payload *PortalLoginCode) error {
	rd := GetRedisClient()
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return rd.Set(ctx, loginCodeKey(portalId, email), string(body), config.LoginCodeTTL).Err()
}

// GetPortalLoginCode returns nil without error when no code is cached.
func GetPortalLoginCode(ctx context.Context, portalId string, email string) (*PortalLoginCode, error) {
	rd := GetRedisClient()
	val, err := rd.Get(ctx, loginCodeKey(portalId, email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var payload PortalLoginCode
	if err := json.Unmarshal([]byte(val), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func DeletePortalLoginCode(ctx context.Context, portalId string, email string) error {
	rd := GetRedisClient()
	return rd.Del(ctx, loginCodeKey(portalId, email)).Err()
}
