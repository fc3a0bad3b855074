package main

import (
	"github.com/alecthomas/kong"
	"github.com/block/recon/pkg/buildinfo"
	"github.com/block/recon/pkg/reconcile"
)

// Set with -ldflags "-X main.version=... -X main.commit=... -X main.date=..."
var (
	version string
	commit  string
	date    string
)

var cli struct {
	Version   kong.VersionFlag       `help:"Print version information and exit."`
	HashQuery reconcile.HashQueryCmd `cmd:"" help:"Print the source and target hash queries of the configured tables."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("recon"),
		kong.Description("recon: build row and key hash queries to reconcile tables across SQL engines"),
		kong.UsageOnError(),
		kong.Vars{"version": buildinfo.Resolve(version, commit, date).String()},
	)
	ctx.FatalIfErrorf(ctx.Run())
}
