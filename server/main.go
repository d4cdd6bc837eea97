package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"taxiflow/storage"
	"taxiflow/utils"

	"github.com/sirupsen/logrus"
	log "github.com/sirupsen/logrus"
)

func LoadServerConfig() (ServerConfig, error) {
	configFile, err := utils.GetConfigFile("./server/config/config.yaml")
	if err != nil {
		return ServerConfig{}, err
	}

	var serverConfig ServerConfig
	err = yaml.Unmarshal(configFile, &serverConfig)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("error parsing server config file: %s", err)
	}

	if databasePath := os.Getenv("DATABASE_PATH"); databasePath != "" {
		serverConfig.DatabasePath = databasePath
	}

	return serverConfig, nil
}

// InitLogger Receives the log level to be set in logrus as a string. This method
// parses the string and set the level to the logger. If the level string is not
// valid an error is returned
func InitLogger(logLevel string) error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return err
	}

	customFormatter := &logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   false,
	}
	logrus.SetFormatter(customFormatter)
	logrus.SetLevel(level)
	return nil
}

func main() {
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "INFO"
	}
	if err := InitLogger(logLevel); err != nil {
		log.Fatalf("%s", err)
		return
	}

	serverConfig, err := LoadServerConfig()
	if err != nil {
		log.Errorf("[server] error loading config: %s", err.Error())
		return
	}

	store, err := storage.NewStore(serverConfig.DatabasePath)
	if err != nil {
		log.Errorf("[server] error opening storage, run the processor first: %s", err.Error())
		return
	}

	server := NewServer(serverConfig, store)
	err = server.Run()
	if err != nil {
		log.Errorf("[server] error running server: %s", err.Error())
		return
	}

	log.Debug("[server] finish main.go")
}
