package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/jerryli27/coffee-project/internal/publish"
	"github.com/jerryli27/coffee-project/internal/store"
	"github.com/spf13/cobra"
)

var (
	publishDir    string
	publishBucket string
	publishPrefix string
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Upload a generated site to an S3 bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("bucket") {
			publishBucket = cfg.Publish.Bucket
		}
		if !cmd.Flags().Changed("prefix") {
			publishPrefix = cfg.Publish.Prefix
		}
		if publishBucket == "" {
			return fmt.Errorf("no bucket configured (set [publish] bucket or pass --bucket)")
		}

		if publishDir == "" {
			s, err := store.New(dataDir)
			if err != nil {
				return err
			}
			publishDir, err = lastSiteDir(s)
			s.Close()
			if err != nil {
				return err
			}
			if publishDir == "" {
				return fmt.Errorf("no finished runs to publish (pass --dir)")
			}
		}
		if _, err := os.Stat(publishDir); err != nil {
			return fmt.Errorf("site directory not found: %s", publishDir)
		}

		sess, err := session.NewSession(&aws.Config{Region: aws.String(cfg.Publish.Region)})
		if err != nil {
			return fmt.Errorf("creating AWS session: %w", err)
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		u := &publish.Uploader{
			Client: s3.New(sess),
			Bucket: publishBucket,
			Prefix: publishPrefix,
			Logger: logger,
		}
		n, err := u.Upload(ctx, publishDir)
		if err != nil {
			return err
		}
		fmt.Printf("☁️ Uploaded %d files to s3://%s/%s\n", n, publishBucket, publishPrefix)
		return nil
	},
}

func init() {
	publishCmd.Flags().StringVar(&publishDir, "dir", "", "Site directory to upload (default: output of the latest run)")
	publishCmd.Flags().StringVar(&publishBucket, "bucket", "", "Destination bucket")
	publishCmd.Flags().StringVar(&publishPrefix, "prefix", "", "Key prefix inside the bucket")
	rootCmd.AddCommand(publishCmd)
}
