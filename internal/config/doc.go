// Package config provides configuration parsing for scene projects.
//
// The configuration is stored in scene.json at the project root. Every
// section is optional; missing values take the defaults below.
//
// # Configuration File Structure
//
//	{
//	  "scenes": "scenes",
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "debug": {
//	    "enabled": true,
//	    "addr": "localhost:6070"
//	  },
//	  "metrics": {
//	    "namespace": "scene",
//	    "constLabels": {"env": "dev"}
//	  },
//	  "tracing": {
//	    "tracer": "scene/window"
//	  },
//	  "s3": {
//	    "region": "us-east-1",
//	    "endpoint": "http://localhost:9000",
//	    "usePathStyle": true
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.LoadFromWorkingDir()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	logger := cfg.Logger(os.Stderr)
package config
