// Package config provides configuration parsing for hfs.
//
// The configuration lives in hfs.yaml (or hfs.yml / hfs.json) and is
// chosen by file extension: YAML through gopkg.in/yaml.v3, anything else
// as JSON. This package handles loading, saving, and validating it.
//
// # Configuration File Structure
//
//	server:
//	  address: ":8080"
//	  readTimeout: 10s
//	  writeTimeout: 10s
//	  shutdownTimeout: 30s
//	parser:
//	  lenientCookies: false
//	admin:
//	  address: "127.0.0.1:9090"
//	  metricsNamespace: hfs
//	log:
//	  level: info
//	  format: text
//	tracing:
//	  enabled: false
//	files:
//	  backend: s3
//	  maxSize: 10485760
//	  s3:
//	    bucket: my-bucket
//	    region: eu-west-1
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Address:", cfg.Server.Address)
package config
