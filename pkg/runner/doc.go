/*
Package runner implements the interactive loop that drives a stylepanel.Panel.

It renders the panel through a pluggable handler, reads one command per line,
applies it, and persists the group visibility after each step when a session
manager is configured.

# Key Components

  - Runner: the read-eval-render loop.
  - IOHandler: decouples how frames are shown and commands are read.
  - TextHandler: markdown frames for interactive terminals.
  - JSONHandler: JSON-Lines frames for scripted hosts.
  - CommandInterceptor: policy applied before a command runs (read-only, confirmation).

# Usage

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
		runner.WithSessions(manager, "water-panel"),
	)

	if err := r.Run(ctx, panel); err != nil {
		log.Fatal(err)
	}
*/
package runner
