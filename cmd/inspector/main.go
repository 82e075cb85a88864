package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"

	"tx-inspector-sol/internal/config"
	"tx-inspector-sol/internal/input"
	"tx-inspector-sol/internal/logic/analyzer"
	"tx-inspector-sol/internal/logic/resolver"
	"tx-inspector-sol/internal/mq"
	"tx-inspector-sol/internal/signing"
	"tx-inspector-sol/internal/svc"
	"tx-inspector-sol/internal/types"
	"tx-inspector-sol/pkg/logger"
)

var (
	configFile = flag.String("f", "etc/inspector.yaml", "the config file")
	txFile     = flag.String("tx", "", "transaction input file (json / base64 / base58)")
	signerStr  = flag.String("signer", "", "signer pubkey (base58, overrides config)")
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			logx.Errorf("panic: %+v\nstack: %s", r, debug.Stack())
			os.Exit(1)
		}
	}()

	flag.Parse()

	var c config.InspectorConfig
	conf.MustLoad(*configFile, &c)
	if err := logger.Init(c.LogConf.ToLogOption()); err != nil {
		logx.Errorf("logger init failed: %v", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *txFile == "" {
		fmt.Fprintln(os.Stderr, "usage: inspector -tx <file> [-signer <base58>] [-f <config>]")
		os.Exit(2)
	}

	serviceContext, err := svc.NewServiceContext(c)
	if err != nil {
		logger.Errorf("service context init failed: %v", err)
		os.Exit(1)
	}

	signerB58 := *signerStr
	if signerB58 == "" {
		signerB58 = c.Signer
	}
	signer, err := types.TryPubkeyFromBase58(signerB58)
	if err != nil {
		logger.Errorf("invalid signer pubkey: %v", err)
		os.Exit(2)
	}

	raw, err := input.ReadFile(*txFile)
	if err != nil {
		logger.Errorf("read transaction input: %v", err)
		os.Exit(1)
	}
	tx, kind, err := input.Detect(raw)
	if err != nil {
		logger.Errorf("detect transaction input: %v", err)
		os.Exit(1)
	}
	logger.Infof("parsed %s transaction: version=%s, %d instruction(s)",
		kind, tx.Message.Version, len(tx.Message.Instructions))

	ctx := context.Background()
	accounts, err := resolver.ResolveWithSource(ctx, &tx.Message, serviceContext.Tables)
	if err != nil {
		logger.Errorf("resolve lookup tables: %v", err)
		os.Exit(1)
	}

	analysis := analyzer.Analyze(tx, accounts, signer, serviceContext.Registry)
	summary := signing.BuildSummary(tx, analysis, false)

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		logger.Errorf("encode summary: %v", err)
		os.Exit(1)
	}
	fmt.Println(string(out))

	// 审计旁路：失败只记日志，不影响检视结果
	if serviceContext.Producer != nil {
		timeout := time.Duration(c.KafkaAuditConf.SendTimeoutMs) * time.Millisecond
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		if err := mq.PublishAudit(ctx, serviceContext.Producer, c.KafkaAuditConf.Topic, out, timeout); err != nil {
			logger.Warnf("publish audit record: %v", err)
		}
	}
}
