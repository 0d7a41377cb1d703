// Package weave is the compiler front end for the Weave workflow DSL.
//
// Weave describes event-driven agent pipelines: a workflow consumes
// events from a source (NATS, Kafka, MQTT, HTTP, a timer, or a file),
// runs them through an ordered list of agents (LLM calls, ML model
// inference, routing, validation), optionally consults a context
// (knowledge base, Bayesian network, database), and emits results to a
// target. Subworkflows are reusable fragments with explicit input and
// output parameters, bound into workflows by integration blocks.
//
// The front end has three stages, each its own package:
//
//   - lexer: source text to located tokens
//   - parser: tokens to an ast.Program
//   - semantic: two-pass validation producing batched diagnostics
//
// Compile runs all three:
//
//	prog, err := weave.Compile(src)
//	if err != nil {
//	    var list *semantic.ErrorList
//	    if errors.As(err, &list) {
//	        for _, d := range list.Diagnostics {
//	            fmt.Println(d.Message)
//	        }
//	    }
//	    return err
//	}
//
// Lexical and syntax errors are fatal at the first occurrence and carry
// an exact line and column. Semantic analysis always runs to completion
// and reports every violation it finds.
//
// The validated Program is read-only input for downstream consumers:
// the codegen package renders per-agent configs and a deployment
// manifest, and the resource package loads agent resources (prompts,
// models) by URI at execution time.
//
// A minimal workflow:
//
//	workflow Moderation {
//	    source: NATS("posts.incoming")
//	    target: NATS("posts.scored")
//	    agents: [
//	        LLM(
//	            id: "scorer",
//	            engine: "ollama/llama3",
//	            prompt: "Rate the toxicity of: {{data}}"
//	        )
//	    ]
//	}
package weave
