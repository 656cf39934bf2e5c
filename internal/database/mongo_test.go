package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licensedesk/internal/config"
)

func TestNewMongoClientDisabled(t *testing.T) {
	conf := &config.Config{}

	assert.Nil(t, NewMongoClient(conf))
}

func TestNewMongoClient(t *testing.T) {
	conf := &config.Config{Mongo: config.Mongo{
		Enabled:  true,
		Host:     "db.local",
		Port:     "27017",
		User:     "desk",
		Password: "pw",
		Database: "licensedesk",
	}}

	m := NewMongoClient(conf)

	require.NotNil(t, m)
	assert.Equal(t, "licensedesk", m.database)
	require.NotNil(t, m.clientOptions.Auth)
	assert.Equal(t, "desk", m.clientOptions.Auth.Username)
	assert.Equal(t, "licensedesk", m.clientOptions.Auth.AuthSource)
	assert.Equal(t, []string{"db.local:27017"}, m.clientOptions.Hosts)
}
