// Package runloop implements an autonomous task-execution turn loop.
//
// Run drives a language model through successive turns: the model emits one
// structured action, the loop validates it against the registered schema,
// dispatches it to an executor or plugin, and feeds the outcome back as new
// conversation input until the model finishes, an action halts the run, or
// the turn budget runs out.
//
// # Architecture
//
// The package is organized around these core concepts:
//
//   - Action: A tagged union over the built-in variants (read_file,
//     write_file, edit_file, shell, finish) and plugin-defined variants,
//     identified on the wire by the "action" discriminator field.
//   - Registry: Per-run lookup from discriminator to execution binding,
//     plus the combined oneOf schema given to the model.
//   - Plugin: A named capability bundle adding a new action type without
//     touching the core loop.
//   - Result: The terminal outcome of a run (completed, halted, turn limit
//     exceeded, or failed).
//
// # Quick Start
//
//	driver, err := llm.New("anthropic", llm.WithModel("claude-sonnet-4"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := runloop.Run(ctx, "Create a hello.py file", runloop.Options{
//	    Model:       driver,
//	    ExecOptions: executor.Options{WorkingDir: "/path/to/project"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Status, result.Message)
package runloop
