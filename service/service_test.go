package service

import (
	"os"
	"testing"

	"github.com/insikex/safeguard/db"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "safeguard-service-test")
	if err != nil {
		panic(err)
	}
	db.InitDB(dir)
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}
