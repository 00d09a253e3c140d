package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DavidJ001/patient-request-form/internal/booking"
	"github.com/DavidJ001/patient-request-form/internal/uploads"
	"github.com/DavidJ001/patient-request-form/pkg/logging"
)

type fakeS3 struct {
	puts []*s3.PutObjectInput
	body []byte
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, in)
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func multipartBody(t *testing.T, field, name string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "ignored"))
	fw, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func upload(h *ReferralUploadHandler, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/appointments/referrals", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Upload(rec, req)
	return rec
}

func TestReferralUpload_Stores(t *testing.T) {
	s3c := &fakeS3{}
	h := NewReferralUploadHandler(uploads.NewService(s3c, "referrals-bucket", nil, logging.Discard()), logging.Discard())

	body, ct := multipartBody(t, "file", "referral letter.PDF", []byte("%PDF-1.4 referral"))
	rec := upload(h, body, ct)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var doc booking.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "referral letter.PDF", doc.Name)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.Equal(t, int64(len("%PDF-1.4 referral")), doc.Size)

	require.Len(t, s3c.puts, 1)
	assert.Equal(t, "referrals-bucket", aws.ToString(s3c.puts[0].Bucket))
	assert.Equal(t, doc.Key, aws.ToString(s3c.puts[0].Key))
	assert.Equal(t, "%PDF-1.4 referral", string(s3c.body))
}

func TestReferralUpload_RejectsType(t *testing.T) {
	s3c := &fakeS3{}
	h := NewReferralUploadHandler(uploads.NewService(s3c, "bucket", nil, logging.Discard()), logging.Discard())

	body, ct := multipartBody(t, "file", "script.exe", []byte("MZ"))
	rec := upload(h, body, ct)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Empty(t, s3c.puts)
}

func TestReferralUpload_RejectsSize(t *testing.T) {
	s3c := &fakeS3{}
	h := NewReferralUploadHandler(uploads.NewService(s3c, "bucket", nil, logging.Discard()), logging.Discard())

	body, ct := multipartBody(t, "file", "scan.png", bytes.Repeat([]byte{0x1}, int(booking.MaxReferralSize)+1))
	rec := upload(h, body, ct)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Empty(t, s3c.puts)
}

func TestReferralUpload_MissingFilePart(t *testing.T) {
	h := NewReferralUploadHandler(uploads.NewService(&fakeS3{}, "bucket", nil, logging.Discard()), logging.Discard())

	body, ct := multipartBody(t, "attachment", "scan.png", []byte("png"))
	rec := upload(h, body, ct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = upload(h, bytes.NewBufferString(`{}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReferralUpload_Disabled(t *testing.T) {
	h := NewReferralUploadHandler(uploads.NewService(nil, "", nil, logging.Discard()), logging.Discard())
	assert.False(t, h.Enabled())

	body, ct := multipartBody(t, "file", "scan.png", []byte("png"))
	rec := upload(h, body, ct)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
