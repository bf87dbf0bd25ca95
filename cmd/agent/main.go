package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/opspilot/kubeagent/internal/kube"
	"github.com/opspilot/kubeagent/internal/provider"
	"github.com/opspilot/kubeagent/internal/runner"
	"github.com/opspilot/kubeagent/memory"
	"github.com/opspilot/kubeagent/tools"
)

const systemPreamble = `You are a Kubernetes resource generator and executor.
1. Generate manifests from the user's request as plain YAML; no prose around the YAML and no code fences.
2. Pick the right tool from the catalog to act on the request.
3. Do not claim an action happened yourself; only the tool result decides that.
4. Report the success or failure message from the tool result back to the user.`

func main() {
	// Basic env check (SDK also reads API key)
	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		fmt.Println("Missing ANTHROPIC_API_KEY; export it before running.")
		os.Exit(1)
	}

	// Load prior conversation if exists
	persistPath := "conversation.json"
	persisted, err := memory.LoadTranscript(persistPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load persisted transcript: %v\n", err)
	}

	// Cluster clients are built on first use: the apply worker constructs its
	// own, and the querier connects when the model first asks for a listing.
	newApplier := func() (tools.ManifestApplier, error) {
		cfg, err := kube.RESTConfig()
		if err != nil {
			return nil, err
		}
		return kube.NewApplier(cfg)
	}
	querier := &lazyQuerier{}

	defs := tools.Registry(newApplier, querier)
	client := provider.New(provider.NewAnthropicClient(), provider.DefaultModel, systemPreamble, defs)

	r := runner.New(client, tools.NewDispatcher(defs), runner.Config{MaxToolRounds: maxToolRounds()})
	r.Seed(persisted)

	// Set up graceful shutdown on Ctrl-C (SIGINT) / SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigch)
	go func() {
		<-sigch
		fmt.Println("\nExiting...")
		cancel()
	}()

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("Chat with the cluster agent (Ctrl-C to quit)")

	// stdin reader goroutine -> lines into channel
	inputCh := make(chan string)
	go func() {
		for scanner.Scan() {
			inputCh <- scanner.Text()
		}
		close(inputCh)
	}()

outer:
	for {
		fmt.Print("\u001b[94mYou\u001b[0m: ")
		var (
			user string
			ok   bool
		)
		select {
		case <-ctx.Done():
			break outer
		case user, ok = <-inputCh:
			if !ok {
				break outer
			}
		}

		answer, err := r.Run(ctx, user)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Printf("\u001b[93mAgent\u001b[0m: %s\n", answer)

		if err := memory.SaveTranscript(persistPath, r.History()); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to save transcript: %v\n", err)
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: stdin read error: %v\n", err)
	}
}

// maxToolRounds reads KA_MAX_TOOL_ROUNDS; unset or invalid means unbounded,
// matching the loop's default.
func maxToolRounds() int {
	v := os.Getenv("KA_MAX_TOOL_ROUNDS")
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		fmt.Fprintf(os.Stderr, "warning: ignoring invalid KA_MAX_TOOL_ROUNDS %q\n", v)
		return 0
	}
	return n
}

// lazyQuerier defers cluster connection until the first query_resources call.
type lazyQuerier struct {
	once sync.Once
	q    *kube.Querier
	err  error
}

func (l *lazyQuerier) Query(ctx context.Context, kind, namespace, labelSelector string) (string, error) {
	l.once.Do(func() {
		cfg, err := kube.RESTConfig()
		if err != nil {
			l.err = err
			return
		}
		l.q, l.err = kube.NewQuerier(cfg)
	})
	if l.err != nil {
		return "", l.err
	}
	return l.q.Query(ctx, kind, namespace, labelSelector)
}
