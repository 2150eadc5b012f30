package cmd

import (
	"github.com/spf13/cobra"

	"soundcatalog/server"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "启动目录服务",
	Long:  `启动音乐目录的HTTP服务，提供流派、曲目、搜索、收藏接口以及就绪通知的WebSocket`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.ServerPort = port
		}
		return server.Start(cfg)
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().StringP("port", "p", "", "监听端口，默认读取 SERVER_PORT")
}
