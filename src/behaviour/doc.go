// Package behaviour defines the build behaviour of a .NET solution in CI.
//
// A Descriptor tells an orchestrator how to clean, build and publish the
// solution. It holds no logic of its own beyond two preconditions: clean
// only acts when the build directory exists, and build/publish only act on
// the packaging platform. Every real operation (compile, pack, push) is
// delegated to the Orchestrator it was constructed with.
//
// The orchestrator calls the hooks in a fixed order:
//
//	d, err := behaviour.New(orch, behaviour.Options{
//	    Env:           env,
//	    Platform:      behaviour.ParsePlatform("Windows-x86"),
//	    Configuration: "Release",
//	    Layout:        behaviour.DefaultLayout(),
//	})
//	if err != nil {
//	    return err
//	}
//	d.Setup()
//	if err := d.Clean(ctx); err != nil { ... }
//	if err := d.Build(ctx); err != nil { ... }
//	if err := d.Publish(ctx); err != nil { ... }
package behaviour
