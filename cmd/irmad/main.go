// Command irmad is the process entrypoint that wires internal/chem's
// simulation core to its surrounding services: stdin commands, a Prometheus
// metrics endpoint, and the HTTP control plane.
package main

import (
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/latticevm/latticevm/internal/chem"
	"github.com/latticevm/latticevm/internal/httpapi"
	"github.com/latticevm/latticevm/internal/metrics"
	"github.com/latticevm/latticevm/internal/terminal"
)

func main() {
	app := cli.NewApp()
	app.Name = "irmad"
	app.Usage = "run a 2D artificial chemistry world"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config", Usage: "path to a JSON world config"},
		cli.StringFlag{Name: "http-addr", Value: ":8080", Usage: "address for the HTTP control plane"},
		cli.StringFlag{Name: "metrics-addr", Value: "", Usage: "address for the Prometheus /metrics endpoint; empty disables it"},
		cli.DurationFlag{Name: "frame-delay", Value: 0, Usage: "sleep between ticks when running"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		glog.Exitf("irmad: %v", err)
	}
}

func run(c *cli.Context) error {
	defer glog.Flush()

	sessionID := uuid.New().String()
	glog.Infof("irmad: starting session %s", sessionID)

	cfg := chem.DefaultConfig()
	if path := c.String("config"); path != "" {
		cfg = chem.LoadConfig(path)
	}
	if addr := c.String("http-addr"); addr != "" {
		cfg.HTTPAddr = addr
	}
	if addr := c.String("metrics-addr"); addr != "" {
		cfg.MetricsAddr = addr
	}

	core := chem.NewCore(cfg)

	reader := terminal.Start(os.Stdin, 32)
	reader.Attach(core)
	defer reader.Stop()

	if cfg.MetricsAddr != "" {
		metrics.Attach(core, prometheus.DefaultRegisterer)
		go func() {
			if err := metrics.Serve(cfg.MetricsAddr); err != nil {
				glog.Errorf("irmad: metrics server exited: %v", err)
			}
		}()
	}

	srv := httpapi.New(core)
	if cfg.HTTPAddr != "" {
		go func() {
			if err := srv.ListenAndServe(cfg.HTTPAddr); err != nil {
				glog.Errorf("irmad: http server exited: %v", err)
			}
		}()
	}

	core.RunLoop(c.Duration("frame-delay"))
	fmt.Fprintf(os.Stdout, "irmad: session %s stopped\n", sessionID)
	return nil
}
