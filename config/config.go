package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var ConfigInfo config

// 使用Viper的好处在于支持配置文件的热更新 同时对大小写不敏感
func Init() {
	wd, _ := os.Getwd()
	logrus.Infof("Current working directory: %s", wd)

	viper.SetConfigType("yaml")
	viper.SetConfigName("config.yml")

	// 不同入口(根目录/cmd子目录)下都能找到配置
	configPaths := []string{
		"../../config",
		"./config",
		"../config",
		".",
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
		absPath, _ := filepath.Abs(path)
		logrus.Infof("Added config path: %s (absolute: %s)", path, absPath)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logrus.Errorf("config file not found: %v", err)
		} else {
			logrus.Errorf("config error: %v", err)
		}
		return
	}

	logrus.Infof("Successfully read config file: %s", viper.ConfigFileUsed())

	// 手动从viper获取配置值 避免Unmarshal问题
	ConfigInfo.Mongo.URI = viper.GetString("mongodb.uri")
	ConfigInfo.Mongo.Database = viper.GetString("mongodb.database")

	ConfigInfo.Redis.Addr = viper.GetString("redis.addr")
	ConfigInfo.Redis.Password = viper.GetString("redis.password")

	ConfigInfo.RabbitMq.Addr = viper.GetString("rabbitmq.addr")
	ConfigInfo.RabbitMq.Username = viper.GetString("rabbitmq.username")
	ConfigInfo.RabbitMq.Password = viper.GetString("rabbitmq.password")

	ConfigInfo.Minio.Endpoint = viper.GetString("minio.endpoint")
	ConfigInfo.Minio.AccessKey = viper.GetString("minio.access_key")
	ConfigInfo.Minio.SecretKey = viper.GetString("minio.secret_key")
	ConfigInfo.Minio.UseSSL = viper.GetBool("minio.use_ssl")
	ConfigInfo.Minio.PublicURL = viper.GetString("minio.public_url")

	ConfigInfo.Elastic.Addr = viper.GetString("elasticsearch.addr")

	logrus.Infof("Config loaded - Mongo: %s/%s", ConfigInfo.Mongo.URI, ConfigInfo.Mongo.Database)
	if ConfigInfo.Elastic.Addr == "" {
		logrus.Warn("No elasticsearch addr configured, feed search falls back to store text search")
	}
}

// RabbitMqURL 拼接amqp连接串
func RabbitMqURL() string {
	c := ConfigInfo.RabbitMq
	return fmt.Sprintf("amqp://%s:%s@%s/", c.Username, c.Password, c.Addr)
}
