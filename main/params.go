// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"flag"
	"fmt"
	"strings"

	log "github.com/inconshreveable/log15"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ava-labs/tzwitter/tzwitter"
)

const (
	versionKey      = "version"
	configKey       = "config"
	dbPathKey       = "db-path"
	inboxFileKey    = "inbox-file"
	l1ContractKey   = "l1-contract"
	l1EntrypointKey = "l1-entrypoint"
	logLevelKey     = "log-level"
	rpcAddrKey      = "rpc-addr"

	envPrefix = "tzwitter"
)

// params of one invocation of the binary
type params struct {
	version   bool
	dbPath    string
	inboxFile string
	rpcAddr   string
	logLevel  log.Lvl
	config    tzwitter.Config
}

func buildFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet(tzwitter.Name, flag.ContinueOnError)

	fs.Bool(versionKey, false, "If true, prints the version and quit")
	fs.String(configKey, "", "Path of an optional config file")
	fs.String(dbPathKey, "tzwitter.db", "Path of the durable storage snapshot")
	fs.String(inboxFileKey, "", "Path of the JSON description of the level to process")
	fs.String(l1ContractKey, tzwitter.DefaultL1Contract, "Base layer contract minting collected tweets")
	fs.String(l1EntrypointKey, tzwitter.DefaultL1Entrypoint, "Entrypoint of the base layer contract")
	fs.String(logLevelKey, "info", "Log level (debug, info, warn, error, crit)")
	fs.String(rpcAddrKey, "", "Address serving the query RPC, disabled if empty")

	return fs
}

// getViper returns the viper environment for the binary
func getViper() (*viper.Viper, error) {
	v := viper.New()

	fs := buildFlagSet()
	pflag.CommandLine.AddGoFlagSet(fs)
	pflag.Parse()
	if err := v.BindPFlags(pflag.CommandLine); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile := v.GetString(configKey); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", configFile, err)
		}
	}
	return v, nil
}

func parseParams(v *viper.Viper) (*params, error) {
	lvl, err := log.LvlFromString(v.GetString(logLevelKey))
	if err != nil {
		return nil, err
	}
	p := &params{
		version:   v.GetBool(versionKey),
		dbPath:    v.GetString(dbPathKey),
		inboxFile: v.GetString(inboxFileKey),
		rpcAddr:   v.GetString(rpcAddrKey),
		logLevel:  lvl,
		config: tzwitter.Config{
			L1Contract:   v.GetString(l1ContractKey),
			L1Entrypoint: v.GetString(l1EntrypointKey),
		},
	}
	if p.version {
		return p, nil
	}
	if p.dbPath == "" {
		return nil, fmt.Errorf("%s is required", dbPathKey)
	}
	return p, p.config.Verify()
}

func getParams() (*params, error) {
	v, err := getViper()
	if err != nil {
		return nil, err
	}
	return parseParams(v)
}
