package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	App struct {
		TokenHashKey string `json:"token_hash_key"`
	} `json:"app,omitempty"`

	KDF struct {
		MemoryCost  uint32 `json:"memory_cost"`
		TimeCost    uint32 `json:"time_cost"`
		Parallelism uint8  `json:"parallelism"`
	} `json:"kdf,omitempty"`

	Storage struct {
		DB struct {
			Driver string `json:"driver"`
			DSN    string `json:"dsn"`
		} `json:"db,omitempty"`

		Cache struct {
			Size int `json:"size"`
		} `json:"cache,omitempty"`
	} `json:"storage,omitempty"`

	Session struct {
		BiometricWindow Duration `json:"biometric_window"`
		RecoveryTTL     Duration `json:"recovery_ttl"`
		SweepInterval   Duration `json:"sweep_interval"`
	} `json:"session,omitempty"`

	Workers struct {
		KDFConcurrency int `json:"kdf_concurrency"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenHashKey: jsonCfg.App.TokenHashKey,
		},
		KDF: KDF{
			MemoryCost:  jsonCfg.KDF.MemoryCost,
			TimeCost:    jsonCfg.KDF.TimeCost,
			Parallelism: jsonCfg.KDF.Parallelism,
		},
		Storage: Storage{
			DB: DB{
				Driver: jsonCfg.Storage.DB.Driver,
				DSN:    jsonCfg.Storage.DB.DSN,
			},
			Cache: Cache{
				Size: jsonCfg.Storage.Cache.Size,
			},
		},
		Session: Session{
			BiometricWindow: time.Duration(jsonCfg.Session.BiometricWindow),
			RecoveryTTL:     time.Duration(jsonCfg.Session.RecoveryTTL),
			SweepInterval:   time.Duration(jsonCfg.Session.SweepInterval),
		},
		Workers: Workers{
			KDFConcurrency: jsonCfg.Workers.KDFConcurrency,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
