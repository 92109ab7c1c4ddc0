package storage

import "mime/multipart"

// Storage 抽象图片等上传文件的存放后端
type Storage interface {
	UploadFile(file *multipart.FileHeader, path string) (string, error)
	DeleteFile(path string) error
}
