package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/smartvoyage/internal/flagx"
	"github.com/dmitrijs2005/smartvoyage/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds.
type JsonConfig struct {
	AuthURL              string         `json:"auth_url"`
	AnonKey              string         `json:"anon_key"`
	FunctionsURL         string         `json:"functions_url"`
	GenerationTransport  string         `json:"generation_transport"`
	GenerationGRPCAddr   string         `json:"generation_grpc_addr"`
	StorageDSN           string         `json:"storage_dsn"`
	RedirectURL          string         `json:"redirect_url"`
	RefreshMargin        timex.Duration `json:"refresh_margin"`
	RefreshCheckInterval timex.Duration `json:"refresh_check_interval"`
	ExportDir            string         `json:"export_dir"`
	LogFile              string         `json:"log_file"`
	S3Bucket             string         `json:"s3_bucket"`
	S3Region             string         `json:"s3_region"`
	S3BaseEndpoint       string         `json:"s3_base_endpoint"`
	S3AccessKey          string         `json:"s3_access_key"`
	S3SecretKey          string         `json:"s3_secret_key"`
	ShareLinkTTL         timex.Duration `json:"share_link_ttl"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Keys that are absent or empty leave the current value alone.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.AuthURL, jc.AuthURL)
	setString(&cfg.AnonKey, jc.AnonKey)
	setString(&cfg.FunctionsURL, jc.FunctionsURL)
	setString(&cfg.GenerationTransport, jc.GenerationTransport)
	setString(&cfg.GenerationGRPCAddr, jc.GenerationGRPCAddr)
	setString(&cfg.StorageDSN, jc.StorageDSN)
	setString(&cfg.RedirectURL, jc.RedirectURL)
	setString(&cfg.ExportDir, jc.ExportDir)
	setString(&cfg.LogFile, jc.LogFile)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)

	if jc.RefreshMargin.Duration > 0 {
		cfg.RefreshMargin = jc.RefreshMargin.Duration
	}
	if jc.RefreshCheckInterval.Duration > 0 {
		cfg.RefreshCheckInterval = jc.RefreshCheckInterval.Duration
	}
	if jc.ShareLinkTTL.Duration > 0 {
		cfg.ShareLinkTTL = jc.ShareLinkTTL.Duration
	}

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
