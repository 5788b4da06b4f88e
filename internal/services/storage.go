package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

var (
	s3Client  *s3.S3
	uploader  *s3manager.Uploader
	useS3     bool
	baseURL   string
	uploadDir string
)

// InitStorage initializes either S3 or local storage based on configuration
func InitStorage() error {
	awsRegion := os.Getenv("AWS_REGION")
	awsAccessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	awsSecretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")

	if awsRegion != "" && awsAccessKey != "" && awsSecretKey != "" {
		sess, err := session.NewSession(&aws.Config{
			Region:      aws.String(awsRegion),
			Credentials: credentials.NewStaticCredentials(awsAccessKey, awsSecretKey, ""),
		})
		if err != nil {
			return fmt.Errorf("failed to create AWS session: %v", err)
		}

		s3Client = s3.New(sess)
		uploader = s3manager.NewUploader(sess)
		useS3 = true
		return nil
	}

	// Fallback to local storage
	useS3 = false
	uploadDir = os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "/app/uploads"
	}
	baseURL = os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	if err := os.MkdirAll(filepath.Join(uploadDir, "gyms"), 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %v", err)
	}

	fmt.Println("AWS S3 not configured, using local file storage")
	return nil
}

// UploadImage uploads an image to S3 or local storage and returns its URL
func UploadImage(file *multipart.FileHeader, folder string) (string, error) {
	if useS3 {
		return uploadToS3(file, folder)
	}
	return uploadLocally(file, folder)
}

func uploadToS3(file *multipart.FileHeader, folder string) (string, error) {
	bucketName := os.Getenv("AWS_S3_BUCKET")
	if bucketName == "" {
		return "", fmt.Errorf("S3 bucket name not configured")
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %v", err)
	}
	defer src.Close()

	buffer := bytes.NewBuffer(nil)
	if _, err := io.Copy(buffer, src); err != nil {
		return "", fmt.Errorf("failed to read file: %v", err)
	}

	contentType := http.DetectContentType(buffer.Bytes())

	fileExt := filepath.Ext(file.Filename)
	fileName := fmt.Sprintf("%s/%d%s", folder, time.Now().UnixNano(), fileExt)

	_, err = uploader.Upload(&s3manager.UploadInput{
		Bucket:      aws.String(bucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(buffer.Bytes()),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %v", err)
	}

	awsRegion := os.Getenv("AWS_REGION")
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucketName, awsRegion, fileName), nil
}

func uploadLocally(file *multipart.FileHeader, folder string) (string, error) {
	folderPath := filepath.Join(uploadDir, folder)
	if err := os.MkdirAll(folderPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create folder directory: %v", err)
	}

	fileExt := filepath.Ext(file.Filename)
	fileName := fmt.Sprintf("%d%s", time.Now().UnixNano(), fileExt)
	filePath := filepath.Join(folderPath, fileName)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %v", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %v", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %v", err)
	}

	relativePath := filepath.ToSlash(filepath.Join(folder, fileName))
	return fmt.Sprintf("%s/uploads/%s", baseURL, relativePath), nil
}

// DeleteImage deletes a previously uploaded image. Local files are left in
// place; only S3 objects are removed.
func DeleteImage(imageURL string) error {
	if !useS3 {
		return nil
	}
	if s3Client == nil {
		return fmt.Errorf("S3 client not initialized")
	}

	bucketName := os.Getenv("AWS_S3_BUCKET")
	if bucketName == "" {
		return fmt.Errorf("S3 bucket name not configured")
	}

	key := extractKeyFromURL(imageURL)
	_, err := s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(key),
	})
	return err
}

// extractKeyFromURL extracts the S3 key from a full object URL,
// keeping the folder prefix
func extractKeyFromURL(url string) string {
	if idx := strings.Index(url, ".amazonaws.com/"); idx != -1 {
		return url[idx+len(".amazonaws.com/"):]
	}
	return filepath.Base(url)
}
