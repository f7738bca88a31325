package main

import (
	"errors"
	"fmt"
	"net/http"

	"autostyle/internal/images"
)

type UploadResponse struct {
	URL string `json:"url" example:"/images/products/prod_img_3f2b9c1e.jpg"`
}

// uploadImageHandler godoc
//
//	@Summary		Upload a product image
//	@Description	Accepts jpeg, png or webp up to 5MB. The type is detected from the file contents.
//	@Tags			admin
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			image	formData	file	true	"Image file"
//	@Success		201		{object}	UploadResponse
//	@Failure		400		{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/admin/upload [post]
func (app *application) uploadImageHandler(w http.ResponseWriter, r *http.Request) {
	// room for the multipart envelope around the file
	r.Body = http.MaxBytesReader(w, r.Body, images.MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(images.MaxUploadSize); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("parse form: %w", err))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		app.badRequestResponse(w, r, errors.New("image file is required"))
		return
	}
	defer file.Close()

	if header.Size > images.MaxUploadSize {
		app.badRequestResponse(w, r, errors.New("image exceeds 5MB"))
		return
	}

	ext, err := images.Sniff(file)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	url, err := app.images.Save(r.Context(), file, images.NewName(ext))
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.logger.Infow("image uploaded", "url", url, "size", header.Size, "admin_id", getAdminFromContext(r).ID)

	_ = app.jsonResponse(w, http.StatusCreated, UploadResponse{URL: url})
}
