package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehrdadmoradabadi/OpsArtisan/internal/testutil"
)

const composeWithVars = `services:
  web:
    image: nginx:${NGINX_VERSION}
    ports:
      - "${HOST_PORT}:80"
    environment:
      - MODE=${MODE:-production}
`

func TestCrossFileResults_NoRelevantFiles(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "hello.sh", "echo hi\n")

	results := CrossFileResults(dir, []string{"hello.sh"})
	assert.Empty(t, results)
}

func TestComposeEnv_AllVariablesDefined(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "docker-compose.yml", composeWithVars)
	testutil.WriteFile(t, dir, ".env", "NGINX_VERSION=1.27\nHOST_PORT=8080\n")

	results := CrossFileResults(dir, []string{"docker-compose.yml", ".env"})

	require.Len(t, results, 1)
	assert.Equal(t, ComposeEnvValidatorID, results[0].ValidatorID)
	assert.Equal(t, StatusPass, results[0].Status)
}

func TestComposeEnv_MissingVariableFails(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "docker-compose.yml", composeWithVars)
	testutil.WriteFile(t, dir, ".env", "NGINX_VERSION=1.27\n")

	results := CrossFileResults(dir, []string{"docker-compose.yml", ".env"})

	require.Len(t, results, 1)
	assert.Equal(t, StatusFail, results[0].Status)
	assert.Contains(t, results[0].Message, "HOST_PORT")
	assert.NotContains(t, results[0].Message, "MODE", "defaulted references are fine")
	assert.NotEmpty(t, results[0].Suggestions)
}

func TestComposeEnv_NoEnvFile(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "docker-compose.yml", composeWithVars)

	results := CrossFileResults(dir, []string{"docker-compose.yml"})

	require.Len(t, results, 1)
	assert.Equal(t, StatusFail, results[0].Status)
}

func TestComposeEnv_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "docker-compose.yml", "services:\n\tweb: {tabs are not yaml\n")

	results := CrossFileResults(dir, []string{"docker-compose.yml"})

	require.Len(t, results, 1)
	assert.Equal(t, StatusFail, results[0].Status)
	assert.Contains(t, results[0].Message, "not valid YAML")
}

const matchingManifests = `apiVersion: apps/v1
kind: Deployment
metadata:
  name: web
spec:
  template:
    metadata:
      labels:
        app: web
        tier: frontend
---
apiVersion: v1
kind: Service
metadata:
  name: web
spec:
  selector:
    app: web
`

func TestServiceSelector_Match(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "manifests.yaml", matchingManifests)

	results := CrossFileResults(dir, []string{"manifests.yaml"})

	require.Len(t, results, 1)
	assert.Equal(t, ServiceSelectorValidatorID, results[0].ValidatorID)
	assert.Equal(t, StatusPass, results[0].Status)
}

func TestServiceSelector_Mismatch(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "deployment.yaml", `kind: Deployment
metadata:
  name: web
spec:
  template:
    metadata:
      labels:
        app: backend
`)
	testutil.WriteFile(t, dir, "service.yaml", `kind: Service
metadata:
  name: web
spec:
  selector:
    app: web
`)

	results := CrossFileResults(dir, []string{"deployment.yaml", "service.yaml"})

	require.Len(t, results, 1)
	assert.Equal(t, StatusFail, results[0].Status)
	assert.Contains(t, results[0].Message, `service "web"`)
	assert.Contains(t, results[0].Message, "app=web")
}

func TestServiceSelector_SubsetMatches(t *testing.T) {
	// The selector only needs to be a subset of the pod labels.
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "manifests.yaml", matchingManifests)

	results := CrossFileResults(dir, []string{"manifests.yaml"})
	require.Len(t, results, 1)
	assert.Equal(t, StatusPass, results[0].Status)
}
