package database

import (
	"testing"

	"github.com/lshigami/ieltsprep/config"
	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.Database{
		Host: "db", Port: "5432", User: "ielts", Password: "secret", Name: "ielts", SSLMode: "disable",
	})
	assert.Equal(t, "host=db user=ielts password=secret dbname=ielts port=5432 sslmode=disable TimeZone=UTC", dsn)
}
