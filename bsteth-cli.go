package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	bscommon "github.com/nodeset-org/hyperdrive-bsteth/common"
	bskeys "github.com/nodeset-org/hyperdrive-bsteth/keys"
	"github.com/nodeset-org/hyperdrive-bsteth/shared"
	bsapi "github.com/nodeset-org/hyperdrive-bsteth/shared/api"
	bsconfig "github.com/nodeset-org/hyperdrive-bsteth/shared/config"
	"github.com/rocket-pool/node-manager-core/config"
	"github.com/rocket-pool/node-manager-core/log"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	successColor = color.FgGreen
	errorColor   = color.FgRed
	warningColor = color.FgYellow
)

// Run
func main() {
	// Initialise application
	app := cli.NewApp()

	// Set application info
	app.Name = "bsteth-cli"
	app.Usage = "Submits validator keys and bonds to the BstETH node operator module"
	app.Version = shared.BstethVersion
	app.Authors = []*cli.Author{
		{
			Name:  "Nodeset",
			Email: "info@nodeset.io",
		},
	}
	app.Copyright = "(C) 2024 NodeSet LLC"

	networkFlag := &cli.StringFlag{
		Name:    "network",
		Aliases: []string{"n"},
		Usage:   "The network to submit to (mainnet or holesky)",
		Value:   string(config.Network_Mainnet),
	}
	settingsDirFlag := &cli.StringFlag{
		Name:  "settings-dir",
		Usage: "Optional folder of network settings files with BstETH contract addresses",
	}
	dataDirFlag := &cli.StringFlag{
		Name:     "data-dir",
		Aliases:  []string{"d"},
		Usage:    "The path to the data directory holding the submitted key registry",
		Required: true,
	}
	depositDataFlag := &cli.StringFlag{
		Name:     "deposit-data",
		Aliases:  []string{"f"},
		Usage:    "The deposit data file with the keys to submit",
		Required: true,
	}
	ethBaseFlag := &cli.StringFlag{
		Name:     "eth-base",
		Aliases:  []string{"e"},
		Usage:    "The address of the account that signs the transaction",
		Required: true,
	}
	operatorIdFlag := &cli.StringFlag{
		Name:    "operator-id",
		Aliases: []string{"o"},
		Usage:   "The BstETH node operator ID; leave blank to create a new operator",
	}
	ecUrlFlag := &cli.StringFlag{
		Name:  "ec-url",
		Usage: "The websocket URL of the Execution Client",
	}
	signerIpFlag := &cli.StringFlag{
		Name:  "signer-ip",
		Usage: "The IP address to bind the signing endpoint to",
		Value: bsconfig.DefaultSignerIP,
	}
	signerPortFlag := &cli.UintFlag{
		Name:  "signer-port",
		Usage: "The port to bind the signing endpoint to",
		Value: uint(bsconfig.DefaultSignerPort),
	}
	signerTimeoutFlag := &cli.Uint64Flag{
		Name:  "signer-timeout",
		Usage: "Seconds to wait for the wallet to sign the transaction",
		Value: bsconfig.DefaultSignerTimeout,
	}
	signerAppDirFlag := &cli.StringFlag{
		Name:  "signer-app-dir",
		Usage: "Folder with the built browser signing app to serve from the signing endpoint",
	}
	bondCurveFlag := &cli.Uint64Flag{
		Name:  "bond-curve-id",
		Usage: "The accounting bond curve used to price a new operator's bond",
		Value: bsconfig.DefaultBondCurveID,
	}
	logFileFlag := &cli.StringFlag{
		Name:  "log-file",
		Usage: "Also write logs to this file (rotated)",
	}
	debugFlag := &cli.BoolFlag{
		Name:  "debug",
		Usage: "Enable debug logging",
	}
	jsonFlag := &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the result as JSON",
	}

	app.Flags = []cli.Flag{
		networkFlag,
		settingsDirFlag,
		dataDirFlag,
		depositDataFlag,
		ethBaseFlag,
		operatorIdFlag,
		ecUrlFlag,
		signerIpFlag,
		signerPortFlag,
		signerTimeoutFlag,
		signerAppDirFlag,
		bondCurveFlag,
		logFileFlag,
		debugFlag,
		jsonFlag,
	}
	app.Action = func(c *cli.Context) error {
		// Logging
		logger, closeLog := createLogger(c.String(logFileFlag.Name), c.Bool(debugFlag.Name))
		defer closeLog()

		// Config
		network := config.Network(c.String(networkFlag.Name))
		cfg := bsconfig.NewBstethConfig(network)
		settingsDir := c.String(settingsDirFlag.Name)
		if settingsDir != "" {
			settingsList, err := bsconfig.LoadSettingsFiles(settingsDir)
			if err != nil {
				return fmt.Errorf("error loading network settings: %w", err)
			}
			err = cfg.ApplySettings(settingsList)
			if err != nil {
				return err
			}
		}
		if c.IsSet(ecUrlFlag.Name) {
			cfg.ExecutionClientUrl.Value = c.String(ecUrlFlag.Name)
		}
		if c.IsSet(signerIpFlag.Name) {
			cfg.SignerIP.Value = c.String(signerIpFlag.Name)
		}
		if c.IsSet(signerPortFlag.Name) {
			cfg.SignerPort.Value = uint16(c.Uint(signerPortFlag.Name))
		}
		if c.IsSet(signerTimeoutFlag.Name) {
			cfg.SignerTimeout.Value = c.Uint64(signerTimeoutFlag.Name)
		}
		if c.IsSet(signerAppDirFlag.Name) {
			cfg.SignerAppDir.Value = c.String(signerAppDirFlag.Name)
		}
		if c.IsSet(bondCurveFlag.Name) {
			cfg.BondCurveID.Value = c.Uint64(bondCurveFlag.Name)
		}

		// Operator
		ethBaseString := c.String(ethBaseFlag.Name)
		if !common.IsHexAddress(ethBaseString) {
			return fmt.Errorf("invalid eth base address [%s]", ethBaseString)
		}
		opCtx := bskeys.OperatorContext{
			EthBaseAddress: common.HexToAddress(ethBaseString),
		}
		operatorIdString := c.String(operatorIdFlag.Name)
		if operatorIdString != "" {
			operatorID, ok := new(big.Int).SetString(operatorIdString, 10)
			if !ok || operatorID.Sign() < 0 {
				return fmt.Errorf("invalid node operator ID [%s]", operatorIdString)
			}
			opCtx.NodeOperatorID = operatorID
		}

		// Keys
		batch, err := bscommon.LoadDepositData(c.String(depositDataFlag.Name))
		if err != nil {
			return err
		}

		// Services
		dataDir, err := filepath.Abs(c.String(dataDirFlag.Name))
		if err != nil {
			return fmt.Errorf("error resolving data directory: %w", err)
		}
		sp, err := bscommon.NewBstethServiceProvider(cfg, dataDir, logger)
		if err != nil {
			return fmt.Errorf("error creating BstETH service provider: %w", err)
		}
		defer func() {
			err := sp.Close()
			if err != nil {
				logger.Warn("Error shutting down", log.Err(err))
			}
		}()

		// Handle process closures
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Submit
		result, submitErr := sp.GetSubmitter().Submit(ctx, batch, opCtx)
		if submitErr == nil {
			pubkeys := make([][]byte, len(batch))
			for i, datum := range batch {
				pubkeys[i] = datum.Pubkey
			}
			err = sp.GetKeyRegistry().Add(pubkeys...)
			if err != nil {
				color.New(warningColor).Fprintf(os.Stderr, "WARNING: keys were submitted but the registry could not be updated: %s\n", err.Error())
			}
		}

		data := createSubmitKeysData(batch, result, submitErr)
		data.Metrics, err = sp.GetSubmissionCounts()
		if err != nil {
			logger.Warn("Couldn't read submission metrics", log.Err(err))
		}
		if c.Bool(jsonFlag.Name) {
			bytes, err := json.MarshalIndent(data, "", "  ")
			if err != nil {
				return fmt.Errorf("error serializing result: %w", err)
			}
			fmt.Println(string(bytes))
		} else {
			printResult(data)
		}
		if submitErr != nil {
			return cli.Exit("", 1)
		}
		return nil
	}

	// Run application
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Creates the logger, teeing into a rotated file if one is provided
func createLogger(logFile string, debug bool) (*slog.Logger, func()) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	var writer io.Writer = os.Stderr
	closer := func() {}
	if logFile != "" {
		fileLogger := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    50, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   false,
		}
		writer = io.MultiWriter(os.Stderr, fileLogger)
		closer = func() {
			_ = fileLogger.Close()
		}
	}
	return slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{Level: level})), closer
}

// Converts the outcome of a submission into its API form
func createSubmitKeysData(batch bskeys.Batch, result *bskeys.SubmissionResult, err error) *bsapi.SubmitKeysData {
	data := &bsapi.SubmitKeysData{
		KeyCount: len(batch),
	}
	if err == nil {
		data.Status = bskeys.ErrorKind_None.ResponseStatus()
		data.Operation = string(result.Operation)
		data.Value = result.TxInfo.Value
		data.TxHash = &result.TxHash
		return data
	}

	kind := bskeys.KindOf(err)
	data.Status = kind.ResponseStatus()
	data.ErrorKind = string(kind)
	data.Error = err.Error()
	var subErr *bskeys.SubmissionError
	if errors.As(err, &subErr) {
		data.DuplicateKeys = subErr.DuplicateKeys
		if subErr.ContractError != nil {
			data.ContractError = subErr.ContractError.Decoded()
		}
	}
	return data
}

// Prints the single result line
func printResult(data *bsapi.SubmitKeysData) {
	if data.ErrorKind == "" {
		color.New(successColor).Printf("Submitted %d key(s) with %s, transaction hash %s\n", data.KeyCount, data.Operation, data.TxHash.Hex())
		return
	}
	color.New(errorColor).Printf("Key submission failed (%s): %s\n", data.ErrorKind, data.Error)
}
