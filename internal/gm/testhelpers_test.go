package gm

import "github.com/Aditya-1301/AI-TTRPG/internal/config"

func testGMConfig(driver string) config.GMConfig {
	return config.GMConfig{
		Driver: driver,
		Model:  "test-model",
	}
}
