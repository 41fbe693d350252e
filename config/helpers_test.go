package config_test

import (
	"context"
	"net/url"

	"github.com/reglet-dev/privrepo/credential/values"
)

type propertyMap map[string]string

func (m propertyMap) Resolve(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

type noopRegistrar struct{}

func (noopRegistrar) Register(context.Context, *url.URL, *values.Pair) error { return nil }
