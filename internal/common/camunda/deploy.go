package camunda

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

//go:embed processes/*.bpmn
var processFiles embed.FS

// ProcessResources returns the embedded BPMN files keyed by file name.
func ProcessResources() (map[string][]byte, error) {
	entries, err := fs.ReadDir(processFiles, "processes")
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(entries))
	for _, e := range entries {
		body, err := processFiles.ReadFile("processes/" + e.Name())
		if err != nil {
			return nil, err
		}
		out[e.Name()] = body
	}
	return out, nil
}

// DeployProcesses deploys every embedded process in a single command. Zeebe
// skips resources whose content did not change since the last deployment.
func DeployProcesses(ctx context.Context, client zbc.Client) ([]string, error) {
	resources, err := ProcessResources()
	if err != nil {
		return nil, fmt.Errorf("read embedded processes: %w", err)
	}

	names := make([]string, 0, len(resources))
	for name := range resources {
		names = append(names, name)
	}
	sort.Strings(names)

	cmd := client.NewDeployResourceCommand()
	for _, name := range names {
		cmd = cmd.AddResource(resources[name], name)
	}

	_, err = executeWithRetry(ctx, DefaultRetryConfig, func(ctx context.Context) (interface{}, error) {
		return cmd.Send(ctx)
	}, "deploy processes")
	if err != nil {
		return nil, err
	}
	return names, nil
}
