package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/everydev1618/goweave/ast"
	"github.com/everydev1618/goweave/lexer"
)

const minimalWorkflow = `
workflow Moderation {
    source: NATS("posts.incoming")
    target: NATS("posts.scored")
    agents: [
        LLM(
            id: "scorer",
            engine: "ollama/llama3",
            prompt: "Rate the toxicity of: {{data}}"
        )
    ]
}
`

func TestParseMinimalWorkflow(t *testing.T) {
	prog, err := Parse(minimalWorkflow)
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}
	if len(prog.Workflows) != 1 {
		t.Fatalf("len(Workflows) = %d, want 1", len(prog.Workflows))
	}

	wf := prog.Workflows[0]
	if wf.Name != "Moderation" {
		t.Errorf("Workflow.Name = %q, want %q", wf.Name, "Moderation")
	}
	if wf.Source == nil || wf.Source.Kind != ast.TransportNATS {
		t.Fatalf("Source = %+v, want NATS", wf.Source)
	}
	if wf.Source.Channel != "posts.incoming" {
		t.Errorf("Source.Channel = %q, want %q", wf.Source.Channel, "posts.incoming")
	}
	if wf.Target == nil || wf.Target.Channel != "posts.scored" {
		t.Fatalf("Target = %+v, want channel posts.scored", wf.Target)
	}
	if len(wf.Agents) != 1 {
		t.Fatalf("len(Agents) = %d, want 1", len(wf.Agents))
	}

	agent := wf.Agents[0]
	if agent.ID != "scorer" {
		t.Errorf("Agent.ID = %q, want %q", agent.ID, "scorer")
	}
	if agent.Type.Kind != ast.AgentLLM {
		t.Errorf("Agent.Type.Kind = %v, want %v", agent.Type.Kind, ast.AgentLLM)
	}
	if len(agent.Config) != 2 {
		t.Fatalf("len(Agent.Config) = %d, want 2 (id is lifted out)", len(agent.Config))
	}
	engine, ok := agent.Named("engine")
	if !ok {
		t.Fatal("engine argument not found")
	}
	if s, _ := engine.AsString(); s != "ollama/llama3" {
		t.Errorf("engine = %q, want %q", s, "ollama/llama3")
	}
}

func TestParseEmptyProgram(t *testing.T) {
	prog, err := Parse("  // nothing here\n")
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}
	if len(prog.Workflows)+len(prog.Subworkflows)+len(prog.Integrations) != 0 {
		t.Errorf("empty input produced non-empty program: %+v", prog)
	}
}

func TestParseSubworkflowAndIntegration(t *testing.T) {
	src := `
workflow Main {
    source: Kafka("events.raw", group: "weave")
    target: Kafka("events.out")
    agents: [ Router(id: "route", routing_rules: {default: "fallback"}) ]
}

subworkflow Enrich {
    input: [text, lang]
    output: [enriched]
    agents: [ DataNormalizer(id: "norm", normalization_method: "minmax") ]
}

integration {
    workflow: Main
    subworkflow: Enrich
    mapping: {
        input: { text: event.payload.text, lang: event.meta.lang },
        output: { enriched: result.enriched }
    }
}
`
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}

	if len(prog.Subworkflows) != 1 {
		t.Fatalf("len(Subworkflows) = %d, want 1", len(prog.Subworkflows))
	}
	sw := prog.Subworkflows[0]
	if sw.Name != "Enrich" {
		t.Errorf("Subworkflow.Name = %q, want %q", sw.Name, "Enrich")
	}
	if len(sw.Input) != 2 || sw.Input[0] != "text" || sw.Input[1] != "lang" {
		t.Errorf("Subworkflow.Input = %v, want [text lang]", sw.Input)
	}
	if len(sw.Output) != 1 || sw.Output[0] != "enriched" {
		t.Errorf("Subworkflow.Output = %v, want [enriched]", sw.Output)
	}

	if len(prog.Integrations) != 1 {
		t.Fatalf("len(Integrations) = %d, want 1", len(prog.Integrations))
	}
	in := prog.Integrations[0]
	if in.Workflow != "Main" || in.Subworkflow != "Enrich" {
		t.Errorf("Integration refs = (%q, %q), want (Main, Enrich)", in.Workflow, in.Subworkflow)
	}
	if got := in.Mapping.Input["text"].String(); got != "event.payload.text" {
		t.Errorf("Mapping.Input[text] = %q, want %q", got, "event.payload.text")
	}
	if got := in.Mapping.Output["enriched"].String(); got != "result.enriched" {
		t.Errorf("Mapping.Output[enriched] = %q, want %q", got, "result.enriched")
	}

	// Named option on the Kafka source.
	wf := prog.Workflows[0]
	group, ok := wf.Source.Options["group"]
	if !ok {
		t.Fatal("Kafka source option 'group' not found")
	}
	if s, _ := group.AsString(); s != "weave" {
		t.Errorf("group option = %q, want %q", s, "weave")
	}
}

func TestParseValueKinds(t *testing.T) {
	src := `
workflow V {
    source: Timer("*/5 * * * *")
    target: File("/tmp/out.json")
    agents: [
        Custom1(
            id: "c",
            text: "s",
            count: 3,
            ratio: -0.5,
            on: true,
            off: false,
            nothing: null,
            obj: { a: 1, "quoted key": [2, 3] },
            route: data.result.score
        )
    ]
}
`
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}

	wf := prog.Workflows[0]
	if wf.Source.Kind != ast.TransportTimer {
		t.Errorf("Source.Kind = %v, want timer", wf.Source.Kind)
	}
	if wf.Target.Kind != ast.TransportFile {
		t.Errorf("Target.Kind = %v, want file", wf.Target.Kind)
	}

	agent := wf.Agents[0]
	if agent.Type.Kind != ast.AgentCustom || agent.Type.Name != "Custom1" {
		t.Fatalf("Agent.Type = %+v, want custom Custom1", agent.Type)
	}

	checks := []struct {
		name string
		kind ast.ValueKind
	}{
		{"text", ast.StringKind},
		{"count", ast.NumberKind},
		{"ratio", ast.NumberKind},
		{"on", ast.BoolKind},
		{"off", ast.BoolKind},
		{"nothing", ast.NullKind},
		{"obj", ast.ObjectKind},
		{"route", ast.PathKind},
	}
	for _, c := range checks {
		v, ok := agent.Named(c.name)
		if !ok {
			t.Errorf("argument %q not found", c.name)
			continue
		}
		if v.Kind != c.kind {
			t.Errorf("argument %q kind = %v, want %v", c.name, v.Kind, c.kind)
		}
	}

	ratio, _ := agent.Named("ratio")
	if n, _ := ratio.AsNumber(); n != -0.5 {
		t.Errorf("ratio = %v, want -0.5", n)
	}
	obj, _ := agent.Named("obj")
	inner, ok := obj.Object["quoted key"]
	if !ok {
		t.Fatal("object key \"quoted key\" not found")
	}
	if inner.Kind != ast.ArrayKind || len(inner.Array) != 2 {
		t.Errorf("quoted key value = %v, want a 2-element array", inner)
	}
	route, _ := agent.Named("route")
	if route.Path.String() != "data.result.score" {
		t.Errorf("route path = %q, want data.result.score", route.Path.String())
	}
}

func TestParsePreprocessorsMonitorDeployment(t *testing.T) {
	src := `
workflow P {
    source: MQTT("sensors/+/temp")
    target: HTTP("https://example.com/ingest")
    preprocessors: [ MissingValueHandler(id: "fill", handling_strategy: "mean") ]
    agents: [ MLModel(id: "predict", model_path: "file://models/temp.onnx") ]
    monitor: { latency_ms: 250, alerts: ["slack"] }
    deployment: { replicas: 3, cpu: "500m" }
}
`
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}
	wf := prog.Workflows[0]
	if len(wf.Preprocessors) != 1 || wf.Preprocessors[0].ID != "fill" {
		t.Fatalf("Preprocessors = %+v, want one agent with id fill", wf.Preprocessors)
	}
	if v, ok := wf.Monitor["latency_ms"]; !ok || v.Num != 250 {
		t.Errorf("Monitor[latency_ms] = %v, want 250", v)
	}
	if v, ok := wf.Deployment["replicas"]; !ok || v.Num != 3 {
		t.Errorf("Deployment[replicas] = %v, want 3", v)
	}
}

func TestParseDatabaseContext(t *testing.T) {
	src := `
workflow D {
    source: NATS("in")
    target: NATS("out")
    context: Database("postgres", "postgres://localhost/weave")
    agents: [ RuleEngine(id: "r", rules: "file://rules.yaml") ]
}
`
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}
	ctx := prog.Workflows[0].Context
	if ctx == nil || ctx.Kind != ast.ContextDatabase {
		t.Fatalf("Context = %+v, want database", ctx)
	}
	if ctx.Name != "postgres" || ctx.Connection != "postgres://localhost/weave" {
		t.Errorf("Context = (%q, %q), want driver and connection string", ctx.Name, ctx.Connection)
	}
}

func TestParseCustomSourceWithPositionalArgs(t *testing.T) {
	src := `
workflow C {
    source: Webhook("https://hooks.example.com", "secret")
    target: NATS("out")
    agents: [ LLM(id: "a", engine: "e", prompt: "p") ]
}
`
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}
	s := prog.Workflows[0].Source
	if s.Kind != ast.TransportCustom || s.Tag != "Webhook" {
		t.Fatalf("Source = %+v, want custom Webhook", s)
	}
	if len(s.Args) != 2 {
		t.Errorf("len(Source.Args) = %d, want 2", len(s.Args))
	}
}

func TestParseCustomTagKeepsNamedOptions(t *testing.T) {
	src := `
workflow C {
    source: Webhook("https://hooks.example.com", secret: "s3cr3t", retries: 3)
    target: Ledger("audit", fsync: true)
    context: VectorStore("embeddings", dimensions: 768)
    agents: [ LLM(id: "a", engine: "e", prompt: "p") ]
}
`
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}
	wf := prog.Workflows[0]

	s := wf.Source
	if s.Kind != ast.TransportCustom || len(s.Args) != 1 {
		t.Fatalf("Source = %+v, want custom with one positional arg", s)
	}
	secret, ok := s.Options["secret"]
	if !ok {
		t.Fatal("Source.Options missing secret")
	}
	if v, _ := secret.AsString(); v != "s3cr3t" {
		t.Errorf("secret = %q, want s3cr3t", v)
	}
	if retries, ok := s.Options["retries"]; !ok || retries.Num != 3 {
		t.Errorf("Source.Options[retries] = %v, want 3", retries)
	}

	if fsync, ok := wf.Target.Options["fsync"]; !ok || !fsync.Bool {
		t.Errorf("Target.Options[fsync] = %v, want true", fsync)
	}
	if dims, ok := wf.Context.Options["dimensions"]; !ok || dims.Num != 768 {
		t.Errorf("Context.Options[dimensions] = %v, want 768", dims)
	}
}

func TestParseDatabaseContextKeepsNamedOptions(t *testing.T) {
	src := `
workflow D {
    source: NATS("in")
    target: NATS("out")
    context: Database("postgres", "postgres://localhost/w", pool_size: 10)
    agents: [ LLM(id: "a", engine: "e", prompt: "p") ]
}
`
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}
	ctx := prog.Workflows[0].Context
	if pool, ok := ctx.Options["pool_size"]; !ok || pool.Num != 10 {
		t.Errorf("Context.Options[pool_size] = %v, want 10", pool)
	}
}

func TestParsePathMapRequiresCommas(t *testing.T) {
	src := `
integration {
    workflow: Main
    subworkflow: Enrich
    mapping: {
        input: { a: x.y b: z.w }
    }
}
`
	_, err := Parse(src)
	if err == nil {
		t.Fatal("Parse() accepted path-map entries without a separating comma")
	}
	var parseErr *Error
	if !errors.As(err, &parseErr) {
		t.Fatalf("error is %T, want *Error", err)
	}
}

func TestParseMappingRejectsStrayComma(t *testing.T) {
	src := `
integration {
    workflow: Main
    subworkflow: Enrich
    mapping: { , input: { a: x.y } }
}
`
	if _, err := Parse(src); err == nil {
		t.Fatal("Parse() accepted a leading comma inside mapping")
	}
}

func TestParseRejectsDuplicateSections(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "workflow source",
			src: `workflow W {
    source: NATS("a")
    source: NATS("b")
    target: NATS("out")
    agents: []
}`,
		},
		{
			name: "workflow agents",
			src: `workflow W {
    source: NATS("a")
    target: NATS("out")
    agents: []
    agents: []
}`,
		},
		{
			name: "subworkflow input",
			src: `subworkflow S {
    input: [a]
    input: [b]
    output: [c]
    agents: []
}`,
		},
		{
			name: "integration workflow",
			src: `integration {
    workflow: A
    workflow: B
    subworkflow: S
    mapping: { input: { a: x.y } }
}`,
		},
		{
			name: "mapping input",
			src: `integration {
    workflow: A
    subworkflow: S
    mapping: { input: { a: x.y }, input: { b: z.w } }
}`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.src)
			if err == nil {
				t.Fatal("Parse() accepted a duplicate section")
			}
			var parseErr *Error
			if !errors.As(err, &parseErr) {
				t.Fatalf("error is %T, want *Error", err)
			}
			if !strings.Contains(parseErr.Message, "duplicate") {
				t.Errorf("error message %q does not mention the duplicate", parseErr.Message)
			}
		})
	}
}

func TestParseDuplicateSectionLocation(t *testing.T) {
	// The second source keyword sits at line 3, column 5.
	src := "workflow W {\n    source: NATS(\"a\")\n    source: NATS(\"b\")\n}"
	_, err := Parse(src)
	if err == nil {
		t.Fatal("Parse() accepted a duplicate source section")
	}
	var parseErr *Error
	if !errors.As(err, &parseErr) {
		t.Fatalf("error is %T, want *Error", err)
	}
	if parseErr.Line != 3 || parseErr.Column != 5 {
		t.Errorf("error at %d:%d, want 3:5", parseErr.Line, parseErr.Column)
	}
}

func TestParseErrorReportsExactLocation(t *testing.T) {
	// The malformed token '@' sits at line 3, column 13.
	src := "workflow Foo {\n    source: NATS(\"in\")\n    target: @\n}"
	_, err := Parse(src)
	if err == nil {
		t.Fatal("Parse() succeeded on malformed input")
	}
	var lexErr *lexer.Error
	if !errors.As(err, &lexErr) {
		t.Fatalf("error is %T, want *lexer.Error", err)
	}
	if lexErr.Line != 3 || lexErr.Column != 13 {
		t.Errorf("error at %d:%d, want 3:13", lexErr.Line, lexErr.Column)
	}
}

func TestParseSyntaxErrorLocation(t *testing.T) {
	// Missing colon after source, line 2 column 12.
	src := "workflow Foo {\n    source NATS(\"in\")\n}"
	_, err := Parse(src)
	if err == nil {
		t.Fatal("Parse() succeeded on malformed input")
	}
	var parseErr *Error
	if !errors.As(err, &parseErr) {
		t.Fatalf("error is %T, want *Error", err)
	}
	if parseErr.Line != 2 || parseErr.Column != 12 {
		t.Errorf("error at %d:%d, want 2:12", parseErr.Line, parseErr.Column)
	}
}

func TestParseStopsAtFirstError(t *testing.T) {
	// Two problems; only the first (line 2) is reported.
	src := "workflow A {\n    bogus: 1\n}\nworkflow B {\n    also_bogus: 2\n}"
	_, err := Parse(src)
	if err == nil {
		t.Fatal("Parse() succeeded on malformed input")
	}
	var parseErr *Error
	if !errors.As(err, &parseErr) {
		t.Fatalf("error is %T, want *Error", err)
	}
	if parseErr.Line != 2 {
		t.Errorf("first error on line %d, want 2", parseErr.Line)
	}
}

func TestParseUnexpectedEOF(t *testing.T) {
	_, err := Parse("workflow Foo {\n    source: NATS(\"in\")\n")
	if err == nil {
		t.Fatal("Parse() succeeded on truncated input")
	}
	var parseErr *Error
	if !errors.As(err, &parseErr) {
		t.Fatalf("error is %T, want *Error", err)
	}
}

func TestParseRejectsMissingChannel(t *testing.T) {
	src := "workflow Foo {\n    source: NATS()\n    target: NATS(\"out\")\n    agents: []\n}"
	_, err := Parse(src)
	if err == nil {
		t.Fatal("Parse() accepted a NATS source without a channel")
	}
}

func TestParseTokensDirectly(t *testing.T) {
	tokens, err := lexer.Tokenize(minimalWorkflow)
	if err != nil {
		t.Fatalf("Tokenize() returned error: %v", err)
	}
	prog, err := ParseTokens(tokens)
	if err != nil {
		t.Fatalf("ParseTokens() returned error: %v", err)
	}
	if len(prog.Workflows) != 1 {
		t.Errorf("len(Workflows) = %d, want 1", len(prog.Workflows))
	}
}
