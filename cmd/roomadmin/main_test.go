package main

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"github.com/mossy-p/room-admin/config"
)

func TestRunReturnsRedisFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{
		Admin: config.AdminConfig{SessionStore: "redis"},
		Redis: config.RedisConfig{Host: mr.Host(), Port: mr.Port()},
	}
	mr.Close()

	logger, _ := test.NewNullLogger()
	assert.ErrorContains(t, run(cfg, logger), "connect to redis")
}
