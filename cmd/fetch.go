package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"soundcatalog/core/catalog"
	"soundcatalog/core/soundcloud"
)

var (
	searchKeyword string
	limit         int
	showTracks    bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "加载一次目录并打印流派",
	Long:  `按关键词从远程目录加载曲目，构建流派索引后输出每个流派及其曲目数量`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.CatalogClientID == "" {
			return errors.New("CATALOG_CLIENT_ID 未配置")
		}
		keyword := searchKeyword
		if keyword == "" {
			keyword = cfg.CatalogQuery
		}

		client := soundcloud.NewClient(cfg.CatalogBaseURL, cfg.CatalogClientID)
		if limit <= 0 {
			limit = cfg.CatalogLimit
		}
		client.SetLimit(limit)
		provider := catalog.NewProvider(client, catalog.Options{
			APIKey:       cfg.CatalogClientID,
			FetchTimeout: cfg.CatalogFetchTimeout,
		})
		defer provider.Close()

		fmt.Printf("正在加载: %q\n", keyword)
		done := make(chan bool, 1)
		provider.EnsureReady(keyword, func(success bool) { done <- success })

		select {
		case ok := <-done:
			if !ok {
				return errors.New("目录加载失败")
			}
		case <-time.After(cfg.CatalogFetchTimeout + 5*time.Second):
			return errors.New("等待目录加载超时")
		}

		genres := provider.Genres()
		fmt.Printf("\n共 %d 首曲目, %d 个流派:\n", len(provider.Tracks()), len(genres))
		for i, genre := range genres {
			tracks := provider.TracksByGenre(genre)
			fmt.Printf("%d. %s (%d)\n", i+1, genre, len(tracks))
			if !showTracks {
				continue
			}
			for _, t := range tracks {
				fmt.Printf("    %s - %s [%s]\n", t.Title, t.Artist, t.ID)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&searchKeyword, "keyword", "k", "", "搜索关键词，默认读取 CATALOG_QUERY")
	fetchCmd.Flags().IntVarP(&limit, "limit", "l", 0, "返回结果数量，默认读取 CATALOG_LIMIT")
	fetchCmd.Flags().BoolVarP(&showTracks, "tracks", "t", false, "同时列出每个流派下的曲目")
}
