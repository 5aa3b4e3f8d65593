package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"sigs.k8s.io/yaml"
)

// Cross-file validator identifiers. These checks receive every output of
// the current generation run; their target is a virtual composite, not a
// single path.
const (
	ComposeEnvValidatorID      = "compose-env-consistency"
	ServiceSelectorValidatorID = "service-selector-match"
)

// CrossFileResults runs the built-in cross-file checks that apply to the
// given outputs. Checks whose subject files are absent produce no result
// at all, so single-file templates stay quiet.
func CrossFileResults(outDir string, files []string) []Result {
	var results []Result

	if r, ok := checkComposeEnv(outDir, files); ok {
		results = append(results, r)
	}
	if r, ok := checkServiceSelectors(outDir, files); ok {
		results = append(results, r)
	}

	return results
}

// envRefPattern matches ${VAR} and ${VAR:-default} references in a
// compose file.
var envRefPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:?-[^}]*)?\}`)

// checkComposeEnv verifies that every ${VAR} reference in a generated
// compose file is either defined in the generated .env or carries a
// default. Returns ok=false when the run produced no compose file.
func checkComposeEnv(outDir string, files []string) (Result, bool) {
	composePath := findFile(files, func(name string) bool {
		return strings.HasPrefix(name, "docker-compose") &&
			(strings.HasSuffix(name, ".yml") || strings.HasSuffix(name, ".yaml"))
	})
	if composePath == "" {
		return Result{}, false
	}

	raw, err := os.ReadFile(filepath.Join(outDir, composePath))
	if err != nil {
		return Result{
			ValidatorID: ComposeEnvValidatorID,
			Status:      StatusSkipped,
			Message:     fmt.Sprintf("cannot read %s: %v", composePath, err),
		}, true
	}

	// The compose file must at least be valid YAML before the env check
	// means anything.
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Result{
			ValidatorID: ComposeEnvValidatorID,
			Status:      StatusFail,
			Message:     fmt.Sprintf("%s is not valid YAML: %v", composePath, err),
			Suggestions: []string{fmt.Sprintf("fix the YAML syntax in %s", composePath)},
		}, true
	}

	defined := readEnvVars(outDir, files)

	var missing []string
	for _, match := range envRefPattern.FindAllStringSubmatch(string(raw), -1) {
		name, hasDefault := match[1], match[2] != ""
		if hasDefault {
			continue
		}
		if _, ok := defined[name]; !ok {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		missing = dedupe(missing)
		return Result{
			ValidatorID: ComposeEnvValidatorID,
			Status:      StatusFail,
			Message: fmt.Sprintf("%s references undefined variables: %s",
				composePath, strings.Join(missing, ", ")),
			Suggestions: []string{
				fmt.Sprintf("add the missing variables to .env or give them defaults (${%s:-value})", missing[0]),
			},
		}, true
	}

	return Result{ValidatorID: ComposeEnvValidatorID, Status: StatusPass}, true
}

// readEnvVars collects variable names from a generated .env file, if any.
func readEnvVars(outDir string, files []string) map[string]struct{} {
	defined := make(map[string]struct{})

	envPath := findFile(files, func(name string) bool { return name == ".env" })
	if envPath == "" {
		return defined
	}

	raw, err := os.ReadFile(filepath.Join(outDir, envPath))
	if err != nil {
		return defined
	}

	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if key, _, ok := strings.Cut(line, "="); ok {
			defined[strings.TrimSpace(key)] = struct{}{}
		}
	}
	return defined
}

// serviceDoc is the subset of a Kubernetes Service relevant to the
// selector check.
type serviceDoc struct {
	Metadata struct {
		Name string `json:"name"`
	} `json:"metadata"`
	Spec struct {
		Selector map[string]string `json:"selector"`
	} `json:"spec"`
}

// deploymentDoc is the subset of a Kubernetes Deployment relevant to the
// selector check.
type deploymentDoc struct {
	Metadata struct {
		Name string `json:"name"`
	} `json:"metadata"`
	Spec struct {
		Template struct {
			Metadata struct {
				Labels map[string]string `json:"labels"`
			} `json:"metadata"`
		} `json:"template"`
	} `json:"spec"`
}

// checkServiceSelectors verifies that every generated Service's selector
// matches the pod labels of at least one generated Deployment. Returns
// ok=false when the run produced no Service documents.
func checkServiceSelectors(outDir string, files []string) (Result, bool) {
	var services []serviceDoc
	var deployments []deploymentDoc

	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(outDir, f))
		if err != nil {
			continue
		}

		for _, doc := range splitYAMLDocuments(string(raw)) {
			var probe struct {
				Kind string `json:"kind"`
			}
			if err := yaml.Unmarshal([]byte(doc), &probe); err != nil {
				continue
			}

			switch probe.Kind {
			case "Service":
				var svc serviceDoc
				if yaml.Unmarshal([]byte(doc), &svc) == nil && len(svc.Spec.Selector) > 0 {
					services = append(services, svc)
				}
			case "Deployment":
				var dep deploymentDoc
				if yaml.Unmarshal([]byte(doc), &dep) == nil {
					deployments = append(deployments, dep)
				}
			}
		}
	}

	if len(services) == 0 {
		return Result{}, false
	}

	for _, svc := range services {
		if !selectorMatchesAny(svc.Spec.Selector, deployments) {
			return Result{
				ValidatorID: ServiceSelectorValidatorID,
				Status:      StatusFail,
				Message: fmt.Sprintf("service %q selector %s matches no generated deployment's pod labels",
					svc.Metadata.Name, formatLabels(svc.Spec.Selector)),
				Suggestions: []string{
					fmt.Sprintf("align the deployment's spec.template.metadata.labels with service %q's selector", svc.Metadata.Name),
				},
			}, true
		}
	}

	return Result{ValidatorID: ServiceSelectorValidatorID, Status: StatusPass}, true
}

// selectorMatchesAny reports whether some deployment's pod labels carry
// every selector pair.
func selectorMatchesAny(selector map[string]string, deployments []deploymentDoc) bool {
	for _, dep := range deployments {
		labels := dep.Spec.Template.Metadata.Labels
		matched := true
		for k, v := range selector {
			if labels[k] != v {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

// splitYAMLDocuments splits a multi-document YAML stream on "---"
// separators, dropping empty documents.
func splitYAMLDocuments(raw string) []string {
	var docs []string
	for _, doc := range strings.Split(raw, "\n---") {
		if strings.TrimSpace(doc) != "" {
			docs = append(docs, doc)
		}
	}
	return docs
}

// findFile returns the first output whose base name satisfies match.
func findFile(files []string, match func(name string) bool) string {
	for _, f := range files {
		if match(filepath.Base(f)) {
			return f
		}
	}
	return ""
}

// formatLabels renders a label map as k=v pairs in key order.
func formatLabels(labels map[string]string) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+labels[k])
	}
	return strings.Join(pairs, ",")
}

// dedupe removes adjacent duplicates from a sorted slice.
func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}
