package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes all top-level blocks of one file.
type fileRoot struct {
	Telemetry []*telemetryBlock `hcl:"telemetry,block"`
	Runners   []*runnerBlock    `hcl:"runner,block"`
	Remain    hcl.Body          `hcl:",remain"`
}

type telemetryBlock struct {
	URL                string `hcl:"url"`
	Namespace          string `hcl:"namespace,optional"`
	InsecureSkipVerify bool   `hcl:"insecure_skip_verify,optional"`
}

type runnerBlock struct {
	Name           string        `hcl:"name,label"`
	Placement      *string       `hcl:"placement,optional"`
	Count          *int          `hcl:"count,optional"`
	Rate           *float64      `hcl:"rate,optional"`
	TicksPerSecond *float64      `hcl:"ticks_per_second,optional"`
	MaxCatchUp     *int          `hcl:"max_catch_up,optional"`
	Workers        *int          `hcl:"workers,optional"`
	Stages         []*stageBlock `hcl:"stage,block"`
	Jobs           []*jobBlock   `hcl:"job,block"`
}

type stageBlock struct {
	Name   string  `hcl:"name,label"`
	After  *string `hcl:"after,optional"`
	Before *string `hcl:"before,optional"`
}

type jobBlock struct {
	Type      string          `hcl:"type,label"`
	Name      string          `hcl:"name,label"`
	Stage     *string         `hcl:"stage,optional"`
	Front     *bool           `hcl:"front,optional"`
	Arguments *argumentsBlock `hcl:"arguments,block"`
}

// argumentsBlock keeps the raw body; job modules decide what it means.
type argumentsBlock struct {
	Body hcl.Body `hcl:",remain"`
}
